package testhelpers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/config"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// DefaultCartItems is one purchase and one three-day rental: 60.00 + 3 x 13.50 = 100.50 ETB.
func DefaultCartItems() []domain.CartItem {
	return []domain.CartItem{
		{
			ID:        uuid.NewString(),
			ProductID: "game-" + uuid.NewString()[:8],
			Title:     "Highland Racer",
			Kind:      domain.ItemKindSale,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("60.00"),
		},
		{
			ID:         uuid.NewString(),
			ProductID:  "game-" + uuid.NewString()[:8],
			Title:      "Lalibela Quest",
			Kind:       domain.ItemKindRental,
			Quantity:   1,
			RentalDays: 3,
			UnitPrice:  decimal.RequireFromString("13.50"),
		},
	}
}

// SeedCart stores a cart for a fresh user with the given items.
func SeedCart(t *testing.T, ctx context.Context, db *postgres.DB, items ...domain.CartItem) *domain.Cart {
	t.Helper()

	carts := postgres.NewCartRepository(db)
	cart := &domain.Cart{
		ID:        uuid.NewString(),
		UserID:    "user-" + uuid.NewString(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, carts.Create(ctx, cart))

	for _, item := range items {
		require.NoError(t, carts.AddItem(ctx, cart.ID, item))
	}

	stored, err := carts.FindByUserID(ctx, cart.UserID)
	require.NoError(t, err)
	return stored
}

// SeedAwaitingAttempt stores an attempt for cart that is waiting on the customer.
func SeedAwaitingAttempt(t *testing.T, ctx context.Context, db *postgres.DB, cart *domain.Cart, window time.Duration) *domain.PaymentAttempt {
	t.Helper()

	total, err := cart.Total()
	require.NoError(t, err)

	attempt, err := domain.NewPaymentAttempt(uuid.NewString(), NewMerchOrderID(), cart, total, domain.TradeTypeCheckout, window)
	require.NoError(t, err)
	require.NoError(t, attempt.AwaitPayment("prepay-"+uuid.NewString()[:8], "https://checkout.example.com/paygate?x=1"))

	require.NoError(t, postgres.NewAttemptRepository(db).Create(ctx, attempt))
	return attempt
}

func NewMerchOrderID() string {
	return time.Now().Format("20060102150405.000000") + uuid.NewString()[:6]
}

// TelebirrConfig is a complete merchant configuration pointing at example hosts.
func TelebirrConfig() config.TelebirrConfig {
	return config.TelebirrConfig{
		BaseURL:             "https://gateway.example.com/apiaccess/payment/gateway",
		WebBaseURL:          "https://checkout.example.com/payment/web/paygate?",
		FabricAppID:         "fabric-app",
		AppSecret:           "app-secret",
		AppKey:              "app-key",
		MerchantAppID:       "merchant-app",
		MerchantCode:        "245445",
		NotifyURL:           "https://store.example.com/api/telebirrnotify",
		RedirectURL:         "https://store.example.com/payment/done",
		MandateNotifyURL:    "https://store.example.com/api/telebirrnotify",
		MandateRedirectURL:  "https://store.example.com/subscription/done",
		Title:               "Game Store Order",
		BusinessType:        "BuyGoods",
		PayeeIdentifierType: "04",
		PayeeType:           "5000",
		TimeoutExpress:      120 * time.Minute,
		ConnTimeout:         5 * time.Second,
		TokenTTL:            55 * time.Minute,
	}
}

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
