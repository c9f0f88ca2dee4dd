package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/application/services"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest"
	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest/middleware"
	"github.com/go-playground/validator"
)

const maxBodyBytes = 64 << 10

type CheckoutService interface {
	Checkout(ctx context.Context, cmd services.CheckoutCommand, idempotencyKey string) (*domain.PaymentAttempt, error)
	CheckoutMandate(ctx context.Context, cmd services.MandateCheckoutCommand, idempotencyKey string) (*domain.PaymentAttempt, error)
}

type AuthTokenService interface {
	RequestAuthToken(ctx context.Context, cmd services.AuthTokenCommand) (json.RawMessage, error)
}

type NotifyService interface {
	HandleNotification(ctx context.Context, n domain.OrderNotification) (*domain.PaymentAttempt, error)
}

type QueryService interface {
	FindByMerchOrderID(ctx context.Context, userID, merchOrderID string) (*services.OrderStatus, error)
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthFunc adapts a plain function to HealthChecker.
type HealthFunc func(ctx context.Context) error

func (f HealthFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type Handlers struct {
	checkout  CheckoutService
	authToken AuthTokenService
	notify    NotifyService
	query     QueryService
	health    []HealthChecker
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewHandlers(
	checkout CheckoutService,
	authToken AuthTokenService,
	notify NotifyService,
	query QueryService,
	logger *slog.Logger,
	health ...HealthChecker,
) *Handlers {
	return &Handlers{
		checkout:  checkout,
		authToken: authToken,
		notify:    notify,
		query:     query,
		health:    health,
		validate:  validator.New(),
		logger:    logger,
	}
}

// RegisterRoutes mounts the storefront routes behind auth and leaves the
// gateway webhook and health check public.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("POST /api/checkout", auth(http.HandlerFunc(h.HandleCheckout)))
	mux.Handle("POST /api/checkout/mandate", auth(http.HandlerFunc(h.HandleMandateCheckout)))
	mux.Handle("POST /api/telebirr/authtoken", auth(http.HandlerFunc(h.HandleAuthToken)))
	mux.Handle("GET /api/orders/{merchOrderId}", auth(http.HandlerFunc(h.HandleGetOrder)))
	mux.HandleFunc("POST /api/telebirrnotify", h.HandleNotify)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
}

// decode reads a JSON body into dst and validates it. An empty body decodes to
// the zero value.
func (h *Handlers) decode(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return application.NewInvalidInputError(err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return application.NewInvalidInputError(err)
	}
	return nil
}

func (h *Handlers) userID(r *http.Request) (string, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return "", application.NewUnauthorizedError(errors.New("no user in request context"))
	}
	return userID, nil
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	rest.WriteError(w, err, h.logger)
}
