package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	q Executor
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{q: db.Pool}
}

// Create writes the order header and its item snapshot. Call it inside a
// transaction so a partial order is never visible.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, user_id, cart_id, merch_order_id, total, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)
	`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.UserID, order.CartID, order.MerchOrderID,
		order.Total.String(), order.Total.Currency, string(order.Status), order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, title, kind, quantity, rental_days, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric)
	`
	for _, it := range order.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			order.ID, it.ProductID, it.Title, string(it.Kind), it.Quantity, it.RentalDays,
			it.UnitPrice.String(), it.LineTotal.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByMerchOrderID(ctx context.Context, merchOrderID string) (*domain.Order, error) {
	query := `
		SELECT id::text, user_id, cart_id::text, merch_order_id, total::text, currency, status, created_at
		FROM orders WHERE merch_order_id = $1
	`

	var m OrderModel
	err := r.q.QueryRow(ctx, query, merchOrderID).Scan(
		&m.ID, &m.UserID, &m.CartID, &m.MerchOrderID, &m.Total, &m.Currency, &m.Status, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, title, kind, quantity, rental_days, unit_price::text, line_total::text
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, m.ID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OrderItemModel, error) {
		var it OrderItemModel
		err := row.Scan(&it.ProductID, &it.Title, &it.Kind, &it.Quantity, &it.RentalDays, &it.UnitPrice, &it.LineTotal)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan order items: %w", err)
	}

	return toDomainOrder(m, items)
}
