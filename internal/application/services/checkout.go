package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/config"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/telebirr"
	"github.com/google/uuid"
)

// CheckoutStage marks how far a checkout got. Stages only move forward.
type CheckoutStage string

const (
	StageStart             CheckoutStage = "START"
	StageTokenAcquired     CheckoutStage = "TOKEN_ACQUIRED"
	StageOrderSubmitted    CheckoutStage = "ORDER_SUBMITTED"
	StagePrepayIDExtracted CheckoutStage = "PREPAY_ID_EXTRACTED"
	StageRedirectURLBuilt  CheckoutStage = "REDIRECT_URL_BUILT"
	StageDone              CheckoutStage = "DONE"
)

// maxMerchOrderIDAttempts bounds regeneration after a merch_order_id collision.
const maxMerchOrderIDAttempts = 3

// StageError records the last stage a failed checkout reached.
type StageError struct {
	Stage CheckoutStage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("checkout failed after %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type CheckoutService struct {
	attempts application.AttemptRepository
	carts    application.CartRepository
	gateway  telebirr.Client
	tokens   *TokenProvider
	cfg      config.TelebirrConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewCheckoutService(
	attempts application.AttemptRepository,
	carts application.CartRepository,
	gateway telebirr.Client,
	tokens *TokenProvider,
	cfg config.TelebirrConfig,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		attempts: attempts,
		carts:    carts,
		gateway:  gateway,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Checkout submits the caller's cart as a web checkout order and returns the
// attempt whose CheckoutURL is the gateway payment page.
func (s *CheckoutService) Checkout(ctx context.Context, cmd CheckoutCommand, idempotencyKey string) (*domain.PaymentAttempt, error) {
	variant := telebirr.OrderVariant{
		TradeType:   domain.TradeTypeCheckout,
		NotifyURL:   s.cfg.NotifyURL,
		RedirectURL: s.cfg.RedirectURL,
	}
	return s.checkout(ctx, cmd.UserID, cmd.Title, variant, cmd, idempotencyKey)
}

// CheckoutMandate submits an in-app mandate order. CheckoutURL on the returned
// attempt holds the signed raw request for the app SDK.
func (s *CheckoutService) CheckoutMandate(ctx context.Context, cmd MandateCheckoutCommand, idempotencyKey string) (*domain.PaymentAttempt, error) {
	if cmd.ContractNo == "" || cmd.TemplateID == "" || cmd.ExecuteTime == "" {
		return nil, application.NewInvalidInputError(domain.NewMissingRequiredFieldError("mandate data"))
	}

	variant := telebirr.OrderVariant{
		TradeType:   domain.TradeTypeInApp,
		NotifyURL:   s.cfg.MandateNotifyURL,
		RedirectURL: s.cfg.MandateRedirectURL,
		Mandate: &telebirr.MandateData{
			ContractNo:  cmd.ContractNo,
			TemplateID:  cmd.TemplateID,
			ExecuteTime: cmd.ExecuteTime,
		},
	}
	return s.checkout(ctx, cmd.UserID, cmd.Title, variant, cmd, idempotencyKey)
}

func (s *CheckoutService) checkout(
	ctx context.Context,
	userID string,
	title string,
	variant telebirr.OrderVariant,
	cmd any,
	idempotencyKey string,
) (*domain.PaymentAttempt, error) {
	if userID == "" {
		return nil, application.NewUnauthorizedError(domain.NewMissingRequiredFieldError("user ID"))
	}

	requestHash, err := ComputeHash(struct {
		TradeType domain.TradeType `json:"trade_type"`
		Command   any              `json:"command"`
	}{variant.TradeType, cmd})
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	if idempotencyKey != "" {
		cached, err := s.checkIdempotency(ctx, userID, idempotencyKey, requestHash)
		if err != nil || cached != nil {
			return cached, err
		}
	}

	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, application.NewInvalidInputError(domain.NewEmptyCartError(userID))
		}
		return nil, application.NewInternalError(err)
	}

	amount, err := cart.Total()
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	attempt, err := s.createAttempt(ctx, cart, amount, variant.TradeType, idempotencyKey, requestHash)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(
		"merch_order_id", attempt.MerchOrderID,
		"trade_type", variant.TradeType,
		"amount", attempt.Amount.String(),
	)

	stage := StageStart
	logger.Info("checkout started", "stage", stage)

	fabricToken, err := s.tokens.FabricToken(ctx)
	if err != nil {
		return nil, s.fail(ctx, logger, attempt, stage, err)
	}
	stage = StageTokenAcquired

	result, err := s.gateway.PreOrder(ctx, fabricToken, telebirr.PreOrderRequest{
		MerchOrderID: attempt.MerchOrderID,
		Title:        title,
		Amount:       attempt.Amount,
		Variant:      variant,
	})
	if err != nil {
		return nil, s.fail(ctx, logger, attempt, stage, err)
	}
	stage = StageOrderSubmitted
	logger.Debug("pre-order accepted", "stage", stage)

	prepayID := result.PrepayID
	stage = StagePrepayIDExtracted

	rawRequest, err := s.gateway.BuildRawRequest(prepayID, variant.TradeType)
	if err != nil {
		return nil, s.fail(ctx, logger, attempt, stage, err)
	}

	checkoutURL := rawRequest
	if variant.TradeType == domain.TradeTypeCheckout {
		checkoutURL = s.cfg.WebBaseURL + rawRequest
	}
	stage = StageRedirectURLBuilt

	if err := attempt.AwaitPayment(prepayID, checkoutURL); err != nil {
		return nil, s.fail(ctx, logger, attempt, stage, err)
	}
	if err := s.attempts.Update(ctx, attempt); err != nil {
		logger.Error("failed to persist awaiting attempt", "stage", stage, "error", err)
		return nil, application.NewInternalError(&StageError{Stage: stage, Err: err})
	}
	stage = StageDone

	logger.Info("checkout ready", "stage", stage, "expires_at", attempt.ExpiresAt)
	return attempt, nil
}

// checkIdempotency returns the earlier attempt for a replayed key, or nil when
// the key is new.
func (s *CheckoutService) checkIdempotency(ctx context.Context, userID, key, requestHash string) (*domain.PaymentAttempt, error) {
	existing, err := s.attempts.FindByIdempotencyKey(ctx, userID, key)
	if err != nil {
		if errors.Is(err, domain.ErrAttemptNotFound) {
			return nil, nil
		}
		return nil, application.NewInternalError(err)
	}

	if existing.RequestHash != requestHash {
		return nil, application.NewIdempotencyMismatchError()
	}

	switch existing.Status {
	case domain.StatusAwaitingPayment, domain.StatusPaid:
		return existing, nil
	case domain.StatusPending:
		return nil, application.NewRequestProcessingError()
	case domain.StatusExpired:
		return nil, application.NewAttemptExpiredError(domain.NewAttemptExpiredError(existing.MerchOrderID))
	default:
		return nil, application.NewInvalidStateError(
			fmt.Errorf("checkout %s already failed; retry with a new idempotency key", existing.MerchOrderID))
	}
}

func (s *CheckoutService) createAttempt(
	ctx context.Context,
	cart *domain.Cart,
	amount domain.Money,
	tradeType domain.TradeType,
	idempotencyKey string,
	requestHash string,
) (*domain.PaymentAttempt, error) {
	for i := 0; i < maxMerchOrderIDAttempts; i++ {
		merchOrderID, err := telebirr.NewMerchOrderID(s.now())
		if err != nil {
			return nil, application.NewInternalError(err)
		}

		attempt, err := domain.NewPaymentAttempt(uuid.NewString(), merchOrderID, cart, amount, tradeType, s.cfg.TimeoutExpress)
		if err != nil {
			return nil, application.NewInvalidInputError(err)
		}
		attempt.IdempotencyKey = idempotencyKey
		attempt.RequestHash = requestHash

		err = s.attempts.Create(ctx, attempt)
		switch {
		case err == nil:
			return attempt, nil
		case errors.Is(err, domain.ErrDuplicateMerchOrderID):
			s.logger.Warn("merch order id collision, regenerating", "merch_order_id", merchOrderID)
			continue
		case errors.Is(err, domain.ErrDuplicateIdempotencyKey):
			return nil, application.NewRequestProcessingError()
		default:
			return nil, application.NewInternalError(err)
		}
	}
	return nil, application.NewInternalError(errors.New("could not allocate a unique merch order id"))
}

// fail closes the attempt as FAILED and maps err for the caller. Gateway
// details stay in the log.
func (s *CheckoutService) fail(
	ctx context.Context,
	logger *slog.Logger,
	attempt *domain.PaymentAttempt,
	stage CheckoutStage,
	err error,
) error {
	category := application.CategorizeError(err)
	logger.Error("checkout failed", "stage", stage, "category", category, "error", err)

	if markErr := attempt.Fail(string(category)); markErr == nil {
		if updErr := s.attempts.Update(context.WithoutCancel(ctx), attempt); updErr != nil {
			logger.Error("failed to record failed attempt", "error", updErr)
		}
	}

	stageErr := &StageError{Stage: stage, Err: err}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return application.NewTimeoutError()
	}
	if _, ok := telebirr.IsGatewayError(err); ok {
		return application.NewGatewayError(stageErr)
	}
	return application.NewInternalError(stageErr)
}
