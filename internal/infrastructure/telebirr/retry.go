package telebirr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/config"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
)

// RetryClient retries the idempotent gateway calls. Each pre-order attempt is
// signed afresh by the inner client, so nonce and timestamp differ while the
// merch_order_id stays the same. The auth token exchange is passed through once.
type RetryClient struct {
	inner      Client
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryClient(inner Client, cfg config.RetryConfig) *RetryClient {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryClient{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: maxRetries,
	}
}

func (r *RetryClient) ApplyFabricToken(ctx context.Context) (*FabricToken, error) {
	return retry(ctx, r, func(ctx context.Context) (*FabricToken, error) {
		return r.inner.ApplyFabricToken(ctx)
	})
}

func (r *RetryClient) PreOrder(ctx context.Context, fabricToken string, req PreOrderRequest) (*PreOrderResult, error) {
	return retry(ctx, r, func(ctx context.Context) (*PreOrderResult, error) {
		return r.inner.PreOrder(ctx, fabricToken, req)
	})
}

func (r *RetryClient) RequestAuthToken(ctx context.Context, fabricToken, appToken string) (json.RawMessage, error) {
	return r.inner.RequestAuthToken(ctx, fabricToken, appToken)
}

func (r *RetryClient) BuildRawRequest(prepayID string, tradeType domain.TradeType) (string, error) {
	return r.inner.BuildRawRequest(prepayID, tradeType)
}

func retry[T any](ctx context.Context, r *RetryClient, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			timer := time.NewTimer(r.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if gwErr, ok := IsGatewayError(err); ok {
		return gwErr.IsRetryable()
	}
	return false
}

// backoff doubles the base delay per attempt and adds up to half of it as jitter.
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	if base <= 0 {
		return 0
	}
	return base + rand.N(base/2+1)
}
