package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr"
	"github.com/google/uuid"
)

// NotifyService settles payment attempts from gateway notifications.
type NotifyService struct {
	verifier  *telebirr.WebhookVerifier
	txManager application.TransactionManager
	locker    application.Locker
	publisher application.UpdatePublisher
	lockTTL   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewNotifyService(
	verifier *telebirr.WebhookVerifier,
	txManager application.TransactionManager,
	locker application.Locker,
	publisher application.UpdatePublisher,
	lockTTL time.Duration,
	logger *slog.Logger,
) *NotifyService {
	return &NotifyService{
		verifier:  verifier,
		txManager: txManager,
		locker:    locker,
		publisher: publisher,
		lockTTL:   lockTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleNotification verifies the notification, then creates the order, marks
// the attempt PAID and empties the cart in one transaction. A repeat
// notification for a paid attempt returns the attempt unchanged.
func (s *NotifyService) HandleNotification(ctx context.Context, n domain.OrderNotification) (*domain.PaymentAttempt, error) {
	if n.OrderID == "" || n.TotalAmount == "" {
		return nil, application.NewInvalidInputError(domain.NewMissingRequiredFieldError("orderId and totalAmount"))
	}

	logger := s.logger.With("merch_order_id", n.OrderID)

	if !s.verifier.Verify(n.OrderID, n.TotalAmount, n.Sign) {
		logger.Warn("notification signature mismatch")
		return nil, application.NewSignatureMismatchError()
	}

	amount, err := domain.ParseMoney(n.TotalAmount, domain.CurrencyETB)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	unlock, err := s.locker.TryLock(ctx, n.OrderID, s.lockTTL)
	if err != nil {
		if errors.Is(err, application.ErrLockHeld) {
			logger.Info("notification already being processed")
			return nil, application.NewRequestProcessingError()
		}
		return nil, application.NewInternalError(err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release notification lock", "error", err)
		}
	}()

	var (
		attempt   *domain.PaymentAttempt
		newlyPaid bool
	)
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context, repos application.Repositories) error {
		var err error
		attempt, err = repos.Attempts.FindByMerchOrderIDForUpdate(ctx, n.OrderID)
		if err != nil {
			return err
		}

		if !attempt.Amount.Equal(amount) {
			return domain.NewAmountMismatchError(attempt.Amount.String(), amount.String())
		}

		switch attempt.Status {
		case domain.StatusPaid:
			return nil
		case domain.StatusExpired:
			return domain.NewAttemptExpiredError(attempt.MerchOrderID)
		}

		cart, err := repos.Carts.FindByIDForUpdate(ctx, attempt.CartID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		order, err := domain.NewOrderFromCart(uuid.NewString(), cart, attempt, now)
		if err != nil {
			return err
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		if err := attempt.MarkPaid(order.ID, now); err != nil {
			return err
		}
		if err := repos.Attempts.Update(ctx, attempt); err != nil {
			return err
		}
		if err := repos.Carts.ClearItems(ctx, cart.ID); err != nil {
			return err
		}

		newlyPaid = true
		return nil
	})
	if err != nil {
		logger.Error("notification rejected", "error", err)
		return nil, s.mapErr(err)
	}

	if !newlyPaid {
		logger.Info("duplicate notification acknowledged", "status", attempt.Status)
		return attempt, nil
	}

	logger.Info("payment confirmed", "order_id", *attempt.OrderID, "amount", attempt.Amount.String())
	s.publish(ctx, logger, attempt)
	return attempt, nil
}

func (s *NotifyService) publish(ctx context.Context, logger *slog.Logger, attempt *domain.PaymentAttempt) {
	update := domain.PaymentUpdate{
		MerchOrderID: attempt.MerchOrderID,
		UserID:       attempt.UserID,
		Status:       attempt.Status,
		Timestamp:    s.now().Unix(),
	}
	if attempt.OrderID != nil {
		update.OrderID = *attempt.OrderID
	}
	if err := s.publisher.PublishPaymentUpdate(context.WithoutCancel(ctx), update); err != nil {
		logger.Warn("failed to publish payment update", "error", err)
	}
}

func (s *NotifyService) mapErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrAttemptNotFound), errors.Is(err, domain.ErrCartNotFound):
		return application.NewNotFoundError(err)
	case errors.Is(err, domain.ErrAttemptExpired):
		return application.NewAttemptExpiredError(err)
	case errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrEmptyCart):
		return application.NewInvalidStateError(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return application.NewTimeoutError()
	}
	return application.NewInternalError(err)
}
