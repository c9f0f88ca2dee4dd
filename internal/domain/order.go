package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPaid OrderStatus = "PAID"
)

type OrderItem struct {
	ProductID  string
	Title      string
	Kind       ItemKind
	Quantity   int
	RentalDays int
	UnitPrice  Money
	LineTotal  Money
}

// Order is the persisted result of a paid cart.
type Order struct {
	ID           string
	UserID       string
	CartID       string
	MerchOrderID string
	Total        Money
	Status       OrderStatus
	Items        []OrderItem
	CreatedAt    time.Time
}

// NewOrderFromCart snapshots the cart lines at the moment payment is confirmed.
func NewOrderFromCart(id string, cart *Cart, attempt *PaymentAttempt, now time.Time) (*Order, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("order ID")
	}
	if cart.IsEmpty() {
		return nil, NewEmptyCartError(cart.ID)
	}

	items := make([]OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		items = append(items, OrderItem{
			ProductID:  ci.ProductID,
			Title:      ci.Title,
			Kind:       ci.Kind,
			Quantity:   ci.Quantity,
			RentalDays: ci.RentalDays,
			UnitPrice:  Money{Amount: ci.UnitPrice, Currency: attempt.Amount.Currency},
			LineTotal:  Money{Amount: ci.LineTotal(), Currency: attempt.Amount.Currency},
		})
	}

	return &Order{
		ID:           id,
		UserID:       attempt.UserID,
		CartID:       cart.ID,
		MerchOrderID: attempt.MerchOrderID,
		Total:        attempt.Amount,
		Status:       OrderStatusPaid,
		Items:        items,
		CreatedAt:    now,
	}, nil
}
