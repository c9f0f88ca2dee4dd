package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
)

// ExpirationWorker closes attempts whose payment window passed without a
// notification.
type ExpirationWorker struct {
	attempts  application.AttemptRepository
	txManager application.TransactionManager
	publisher application.UpdatePublisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

func NewExpirationWorker(
	attempts application.AttemptRepository,
	txManager application.TransactionManager,
	publisher application.UpdatePublisher,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *ExpirationWorker {
	return &ExpirationWorker{
		attempts:  attempts,
		txManager: txManager,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
		now:       time.Now,
	}
}

func (w *ExpirationWorker) Start(ctx context.Context) {
	w.logger.Info("expiration worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if _, err := w.ProcessExpirations(ctx); err != nil {
		w.logger.Error("expiration processing failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiration worker stopping")
			return
		case <-ticker.C:
			if _, err := w.ProcessExpirations(ctx); err != nil {
				w.logger.Error("expiration processing failed", "error", err)
			}
		}
	}
}

// ProcessExpirations runs one pass and returns how many attempts it expired.
func (w *ExpirationWorker) ProcessExpirations(ctx context.Context) (int, error) {
	now := w.now().UTC()

	candidates, err := w.attempts.FindExpired(ctx, now, w.batchSize)
	if err != nil {
		return 0, err
	}

	if len(candidates) == 0 {
		return 0, nil
	}

	var processed, expired int

	for _, candidate := range candidates {
		processed++
		attempt, err := w.expire(ctx, candidate.MerchOrderID, now)
		if err != nil {
			w.logger.Error("failed to expire attempt",
				"merch_order_id", candidate.MerchOrderID,
				"error", err)
			continue
		}
		if attempt == nil {
			continue
		}
		expired++
		w.publish(ctx, attempt, now)
	}

	w.logger.Info("processed expiration check",
		"processed", processed,
		"marked_expired", expired)

	return expired, nil
}

// expire re-reads the attempt under lock; a notification may have settled it
// since FindExpired ran. It returns nil when there was nothing to do.
func (w *ExpirationWorker) expire(ctx context.Context, merchOrderID string, now time.Time) (*domain.PaymentAttempt, error) {
	var expired *domain.PaymentAttempt

	err := w.txManager.WithTransaction(ctx, func(ctx context.Context, repos application.Repositories) error {
		attempt, err := repos.Attempts.FindByMerchOrderIDForUpdate(ctx, merchOrderID)
		if err != nil {
			return err
		}
		if attempt.IsTerminal() || !attempt.IsExpired(now) {
			return nil
		}
		if err := attempt.MarkExpired(); err != nil {
			return err
		}
		if err := repos.Attempts.Update(ctx, attempt); err != nil {
			return err
		}
		expired = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

func (w *ExpirationWorker) publish(ctx context.Context, attempt *domain.PaymentAttempt, now time.Time) {
	update := domain.PaymentUpdate{
		MerchOrderID: attempt.MerchOrderID,
		UserID:       attempt.UserID,
		Status:       attempt.Status,
		Timestamp:    now.Unix(),
	}
	if err := w.publisher.PublishPaymentUpdate(ctx, update); err != nil {
		w.logger.Warn("failed to publish expiry", "merch_order_id", attempt.MerchOrderID, "error", err)
	}
}
