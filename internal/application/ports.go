package application

import (
	"context"
	"errors"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
)

// AttemptRepository persists payment attempts. Lookups return
// domain.ErrAttemptNotFound when no row matches.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *domain.PaymentAttempt) error
	Update(ctx context.Context, attempt *domain.PaymentAttempt) error
	FindByMerchOrderID(ctx context.Context, merchOrderID string) (*domain.PaymentAttempt, error)
	FindByMerchOrderIDForUpdate(ctx context.Context, merchOrderID string) (*domain.PaymentAttempt, error)
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.PaymentAttempt, error)
	FindExpired(ctx context.Context, now time.Time, limit int) ([]*domain.PaymentAttempt, error)
}

type CartRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Cart, error)
	FindByIDForUpdate(ctx context.Context, cartID string) (*domain.Cart, error)
	ClearItems(ctx context.Context, cartID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByMerchOrderID(ctx context.Context, merchOrderID string) (*domain.Order, error)
}

// Repositories groups the stores that share one transaction.
type Repositories struct {
	Attempts AttemptRepository
	Carts    CartRepository
	Orders   OrderRepository
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// TokenCache keeps the fabric token between requests. Get reports a miss with
// ok=false and a nil error.
type TokenCache interface {
	Get(ctx context.Context) (token string, ok bool, err error)
	Set(ctx context.Context, token string, ttl time.Duration) error
}

var ErrLockHeld = errors.New("lock is held by another request")

// Locker serializes work on one key across instances. TryLock returns
// ErrLockHeld when another holder owns the key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, err error)
}

type UpdatePublisher interface {
	PublishPaymentUpdate(ctx context.Context, update domain.PaymentUpdate) error
}
