package postgres

import (
	"time"
)

// Amounts travel as NUMERIC::text so no float conversion happens on the way.

type AttemptModel struct {
	ID                string
	MerchOrderID      string
	IdempotencyKey    *string
	RequestHash       *string
	CartID            string
	UserID            string
	Amount            string
	Currency          string
	TradeType         string
	Status            string
	PrepayID          *string
	CheckoutURL       *string
	OrderID           *string
	LastErrorCategory *string
	CreatedAt         time.Time
	ExpiresAt         time.Time
	PaidAt            *time.Time
}

type CartItemModel struct {
	ID         string
	ProductID  string
	Title      string
	Kind       string
	Quantity   int
	RentalDays int
	UnitPrice  string
}

type OrderModel struct {
	ID           string
	UserID       string
	CartID       string
	MerchOrderID string
	Total        string
	Currency     string
	Status       string
	CreatedAt    time.Time
}

type OrderItemModel struct {
	ProductID  string
	Title      string
	Kind       string
	Quantity   int
	RentalDays int
	UnitPrice  string
	LineTotal  string
}
