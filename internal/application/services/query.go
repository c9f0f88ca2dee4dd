package services

import (
	"context"
	"errors"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
)

// OrderStatus is what a customer sees for one checkout.
type OrderStatus struct {
	Attempt *domain.PaymentAttempt
	Order   *domain.Order
}

type QueryService struct {
	attempts application.AttemptRepository
	orders   application.OrderRepository
}

func NewQueryService(
	attempts application.AttemptRepository,
	orders application.OrderRepository,
) *QueryService {
	return &QueryService{
		attempts: attempts,
		orders:   orders,
	}
}

// FindByMerchOrderID returns the checkout owned by userID. Other users' checkouts
// are reported as not found.
func (s *QueryService) FindByMerchOrderID(ctx context.Context, userID, merchOrderID string) (*OrderStatus, error) {
	attempt, err := s.attempts.FindByMerchOrderID(ctx, merchOrderID)
	if err != nil {
		if errors.Is(err, domain.ErrAttemptNotFound) {
			return nil, application.NewNotFoundError(err)
		}
		return nil, application.NewInternalError(err)
	}
	if attempt.UserID != userID {
		return nil, application.NewNotFoundError(domain.ErrAttemptNotFound)
	}

	status := &OrderStatus{Attempt: attempt}
	if attempt.Status != domain.StatusPaid {
		return status, nil
	}

	order, err := s.orders.FindByMerchOrderID(ctx, merchOrderID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	status.Order = order
	return status, nil
}
