package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/jackc/pgx/v5"
)

const attemptColumns = `
	id::text, merch_order_id, idempotency_key, request_hash, cart_id::text, user_id,
	amount::text, currency, trade_type, status,
	prepay_id, checkout_url, order_id::text, last_error_category,
	created_at, expires_at, paid_at`

const (
	constraintMerchOrderID   = "payment_attempts_merch_order_id_key"
	constraintIdempotencyKey = "uq_payment_attempts_user_idempotency"
)

type AttemptRepository struct {
	q Executor
}

func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{q: db.Pool}
}

// Create inserts a new attempt. A reused merch_order_id yields
// domain.ErrDuplicateMerchOrderID; a reused (user, Idempotency-Key) pair yields
// domain.ErrDuplicateIdempotencyKey.
func (r *AttemptRepository) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		INSERT INTO payment_attempts (
			id, merch_order_id, idempotency_key, request_hash, cart_id, user_id,
			amount, currency, trade_type, status,
			prepay_id, checkout_url, order_id, last_error_category,
			created_at, expires_at, paid_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	m := toAttemptModel(attempt)
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MerchOrderID, m.IdempotencyKey, m.RequestHash, m.CartID, m.UserID,
		m.Amount, m.Currency, m.TradeType, m.Status,
		m.PrepayID, m.CheckoutURL, m.OrderID, m.LastErrorCategory,
		m.CreatedAt, m.ExpiresAt, m.PaidAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case constraintIdempotencyKey:
				return domain.ErrDuplicateIdempotencyKey
			default:
				return domain.ErrDuplicateMerchOrderID
			}
		}
		return fmt.Errorf("failed to create payment attempt: %w", err)
	}
	return nil
}

func (r *AttemptRepository) Update(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		UPDATE payment_attempts
		SET status = $1,
			prepay_id = $2, checkout_url = $3, order_id = $4,
			last_error_category = $5, paid_at = $6,
			updated_at = NOW()
		WHERE merch_order_id = $7
	`

	m := toAttemptModel(attempt)
	tag, err := r.q.Exec(ctx, query,
		m.Status,
		m.PrepayID, m.CheckoutURL, m.OrderID,
		m.LastErrorCategory, m.PaidAt,
		m.MerchOrderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttemptNotFound
	}
	return nil
}

func (r *AttemptRepository) FindByMerchOrderID(ctx context.Context, merchOrderID string) (*domain.PaymentAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM payment_attempts WHERE merch_order_id = $1`
	return scanAttempt(r.q.QueryRow(ctx, query, merchOrderID))
}

// FindByMerchOrderIDForUpdate locks the row until the surrounding transaction ends.
func (r *AttemptRepository) FindByMerchOrderIDForUpdate(ctx context.Context, merchOrderID string) (*domain.PaymentAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM payment_attempts WHERE merch_order_id = $1 FOR UPDATE`
	return scanAttempt(r.q.QueryRow(ctx, query, merchOrderID))
}

func (r *AttemptRepository) FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.PaymentAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM payment_attempts WHERE user_id = $1 AND idempotency_key = $2`
	return scanAttempt(r.q.QueryRow(ctx, query, userID, key))
}

// FindExpired returns open attempts whose payment window closed before now,
// oldest first.
func (r *AttemptRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*domain.PaymentAttempt, error) {
	query := `SELECT ` + attemptColumns + `
		FROM payment_attempts
		WHERE status IN ('PENDING', 'AWAITING_PAYMENT')
		  AND expires_at < $1
		ORDER BY expires_at ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("query expired attempts: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PaymentAttempt, error) {
		return scanAttempt(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan expired attempts: %w", err)
	}
	return results, nil
}

func scanAttempt(row pgx.Row) (*domain.PaymentAttempt, error) {
	var m AttemptModel
	err := row.Scan(
		&m.ID, &m.MerchOrderID, &m.IdempotencyKey, &m.RequestHash, &m.CartID, &m.UserID,
		&m.Amount, &m.Currency, &m.TradeType, &m.Status,
		&m.PrepayID, &m.CheckoutURL, &m.OrderID, &m.LastErrorCategory,
		&m.CreatedAt, &m.ExpiresAt, &m.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to scan payment attempt: %w", err)
	}
	return toDomainAttempt(m)
}
