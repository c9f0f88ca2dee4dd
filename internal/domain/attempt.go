// Package domain holds the storefront's payment attempts, carts and orders.
package domain

import (
	"slices"
	"time"
)

// AttemptStatus represents the current state of a payment attempt in its lifecycle
type AttemptStatus string

const (
	StatusPending         AttemptStatus = "PENDING"
	StatusAwaitingPayment AttemptStatus = "AWAITING_PAYMENT"
	StatusPaid            AttemptStatus = "PAID"
	StatusFailed          AttemptStatus = "FAILED"
	StatusExpired         AttemptStatus = "EXPIRED"
)

// PaymentAttempt is one pre-order submitted to the gateway for a cart.
// MerchOrderID is the identifier the gateway echoes back in notifications.
type PaymentAttempt struct {
	ID             string
	MerchOrderID   string
	IdempotencyKey string
	RequestHash    string
	CartID         string
	UserID         string
	Amount         Money
	TradeType      TradeType
	Status         AttemptStatus

	PrepayID    *string
	CheckoutURL *string
	OrderID     *string

	CreatedAt time.Time
	ExpiresAt time.Time
	PaidAt    *time.Time

	LastErrorCategory *string
}

func NewPaymentAttempt(
	id string,
	merchOrderID string,
	cart *Cart,
	amount Money,
	tradeType TradeType,
	window time.Duration,
) (*PaymentAttempt, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("attempt ID")
	}
	if merchOrderID == "" {
		return nil, NewMissingRequiredFieldError("merch order ID")
	}
	if cart == nil || cart.ID == "" {
		return nil, NewMissingRequiredFieldError("cart ID")
	}
	if cart.UserID == "" {
		return nil, NewMissingRequiredFieldError("user ID")
	}

	now := time.Now().UTC()
	return &PaymentAttempt{
		ID:           id,
		MerchOrderID: merchOrderID,
		CartID:       cart.ID,
		UserID:       cart.UserID,
		Amount:       amount,
		TradeType:    tradeType,
		Status:       StatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(window),
	}, nil
}

func (a *PaymentAttempt) transition(target AttemptStatus) error {
	if err := a.canTransitionTo(target); err != nil {
		return err
	}
	a.Status = target
	return nil
}

func (a *PaymentAttempt) canTransitionTo(target AttemptStatus) error {
	switch a.Status {
	case StatusPending:
		return a.allow(target, StatusAwaitingPayment, StatusFailed, StatusExpired)
	case StatusAwaitingPayment:
		return a.allow(target, StatusPaid, StatusFailed, StatusExpired)
	}
	return NewInvalidTransitionError(a.Status, target)
}

func (a *PaymentAttempt) allow(target AttemptStatus, allowed ...AttemptStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(a.Status, target)
}

// AwaitPayment records the gateway's prepay id and the URL or raw request handed
// to the customer.
func (a *PaymentAttempt) AwaitPayment(prepayID, checkoutURL string) error {
	if prepayID == "" {
		return NewMissingRequiredFieldError("prepay_id")
	}
	if err := a.transition(StatusAwaitingPayment); err != nil {
		return err
	}
	a.PrepayID = &prepayID
	a.CheckoutURL = &checkoutURL
	return nil
}

// MarkPaid settles the attempt against the order created from its cart.
func (a *PaymentAttempt) MarkPaid(orderID string, paidAt time.Time) error {
	if err := a.transition(StatusPaid); err != nil {
		return err
	}
	a.OrderID = &orderID
	a.PaidAt = &paidAt
	return nil
}

func (a *PaymentAttempt) Fail(errorCategory string) error {
	if err := a.transition(StatusFailed); err != nil {
		return err
	}
	a.LastErrorCategory = &errorCategory
	return nil
}

func (a *PaymentAttempt) MarkExpired() error {
	return a.transition(StatusExpired)
}

func (a *PaymentAttempt) IsExpired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

func (a *PaymentAttempt) IsTerminal() bool {
	switch a.Status {
	case StatusPaid, StatusFailed, StatusExpired:
		return true
	default:
		return false
	}
}
