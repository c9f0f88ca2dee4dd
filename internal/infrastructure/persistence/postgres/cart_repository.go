package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CartRepository struct {
	q Executor
}

func NewCartRepository(db *DB) *CartRepository {
	return &CartRepository{q: db.Pool}
}

// Create stores an empty cart for a user.
func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	query := `INSERT INTO carts (id, user_id, updated_at) VALUES ($1, $2, $3)`
	if _, err := r.q.Exec(ctx, query, cart.ID, cart.UserID, cart.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

func (r *CartRepository) AddItem(ctx context.Context, cartID string, item domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, title, kind, quantity, rental_days, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric)
	`
	_, err := r.q.Exec(ctx, query,
		item.ID, cartID, item.ProductID, item.Title, string(item.Kind),
		item.Quantity, item.RentalDays, item.UnitPrice.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	query := `SELECT id::text, user_id, updated_at FROM carts WHERE user_id = $1`
	return r.load(ctx, r.q.QueryRow(ctx, query, userID))
}

// FindByIDForUpdate locks the cart row so concurrent edits wait for the
// finalizing transaction.
func (r *CartRepository) FindByIDForUpdate(ctx context.Context, cartID string) (*domain.Cart, error) {
	query := `SELECT id::text, user_id, updated_at FROM carts WHERE id = $1 FOR UPDATE`
	return r.load(ctx, r.q.QueryRow(ctx, query, cartID))
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) touch(ctx context.Context, cartID string) error {
	_, err := r.q.Exec(ctx, `UPDATE carts SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), cartID)
	if err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}
	return nil
}

func (r *CartRepository) load(ctx context.Context, row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	if err := row.Scan(&cart.ID, &cart.UserID, &cart.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to scan cart: %w", err)
	}

	query := `
		SELECT id::text, product_id, title, kind, quantity, rental_days, unit_price::text
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.q.Query(ctx, query, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CartItem, error) {
		var m CartItemModel
		if err := row.Scan(&m.ID, &m.ProductID, &m.Title, &m.Kind, &m.Quantity, &m.RentalDays, &m.UnitPrice); err != nil {
			return domain.CartItem{}, err
		}
		return toDomainCartItem(m)
	})
	if err != nil {
		return nil, fmt.Errorf("scan cart items: %w", err)
	}

	cart.Items = items
	return &cart, nil
}
