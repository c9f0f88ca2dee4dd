package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCart() *domain.Cart {
	return &domain.Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Items: []domain.CartItem{
			{ID: "i1", ProductID: "elden-ring", Title: "Elden Ring", Kind: domain.ItemKindSale, Quantity: 1, UnitPrice: decimal.RequireFromString("2500.00")},
		},
	}
}

func newAttempt(t *testing.T) *domain.PaymentAttempt {
	t.Helper()
	cart := newCart()
	total, err := cart.Total()
	require.NoError(t, err)

	attempt, err := domain.NewPaymentAttempt("att-1", "1718000000000123456", cart, total, domain.TradeTypeCheckout, 120*time.Minute)
	require.NoError(t, err)
	return attempt
}

func TestNewPaymentAttempt(t *testing.T) {
	t.Run("creates pending attempt with expiry window", func(t *testing.T) {
		attempt := newAttempt(t)

		assert.Equal(t, domain.StatusPending, attempt.Status)
		assert.Equal(t, "cart-1", attempt.CartID)
		assert.Equal(t, "user-1", attempt.UserID)
		assert.Equal(t, "2500.00", attempt.Amount.String())
		assert.Equal(t, 120*time.Minute, attempt.ExpiresAt.Sub(attempt.CreatedAt))
	})

	t.Run("rejects missing merch order id", func(t *testing.T) {
		cart := newCart()
		total, _ := cart.Total()

		_, err := domain.NewPaymentAttempt("att-1", "", cart, total, domain.TradeTypeCheckout, time.Hour)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMissingRequiredField))
	})

	t.Run("rejects cart without owner", func(t *testing.T) {
		cart := newCart()
		cart.UserID = ""
		total, _ := cart.Total()

		_, err := domain.NewPaymentAttempt("att-1", "m-1", cart, total, domain.TradeTypeCheckout, time.Hour)

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
	})
}

func TestPaymentAttempt_Transitions(t *testing.T) {
	t.Run("pending to awaiting payment to paid", func(t *testing.T) {
		attempt := newAttempt(t)

		require.NoError(t, attempt.AwaitPayment("prepay-1", "https://pay.example.com/?x=1"))
		assert.Equal(t, domain.StatusAwaitingPayment, attempt.Status)
		assert.Equal(t, "prepay-1", *attempt.PrepayID)

		paidAt := time.Now()
		require.NoError(t, attempt.MarkPaid("order-1", paidAt))
		assert.Equal(t, domain.StatusPaid, attempt.Status)
		assert.Equal(t, "order-1", *attempt.OrderID)
		assert.True(t, attempt.IsTerminal())
	})

	t.Run("cannot pay a pending attempt", func(t *testing.T) {
		attempt := newAttempt(t)

		err := attempt.MarkPaid("order-1", time.Now())

		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
		assert.Equal(t, domain.StatusPending, attempt.Status)
	})

	t.Run("missing prepay id keeps attempt pending", func(t *testing.T) {
		attempt := newAttempt(t)

		err := attempt.AwaitPayment("", "url")

		assert.True(t, errors.Is(err, domain.ErrMissingRequiredField))
		assert.Equal(t, domain.StatusPending, attempt.Status)
	})

	t.Run("terminal states do not move", func(t *testing.T) {
		attempt := newAttempt(t)
		require.NoError(t, attempt.MarkExpired())

		assert.Error(t, attempt.AwaitPayment("p", "u"))
		assert.Error(t, attempt.Fail("PERMANENT"))
		assert.Equal(t, domain.StatusExpired, attempt.Status)
	})

	t.Run("fail records category", func(t *testing.T) {
		attempt := newAttempt(t)

		require.NoError(t, attempt.Fail("PERMANENT"))
		assert.Equal(t, "PERMANENT", *attempt.LastErrorCategory)
	})
}

func TestPaymentAttempt_IsExpired(t *testing.T) {
	attempt := newAttempt(t)

	assert.False(t, attempt.IsExpired(attempt.CreatedAt.Add(time.Minute)))
	assert.True(t, attempt.IsExpired(attempt.ExpiresAt.Add(time.Second)))
}
