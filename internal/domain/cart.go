package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes outright game purchases from time-boxed rentals.
type ItemKind string

const (
	ItemKindSale   ItemKind = "SALE"
	ItemKindRental ItemKind = "RENTAL"
)

type CartItem struct {
	ID         string
	ProductID  string
	Title      string
	Kind       ItemKind
	Quantity   int
	RentalDays int
	UnitPrice  decimal.Decimal
}

// LineTotal is unit price times quantity, and times rental days for rentals.
func (i CartItem) LineTotal() decimal.Decimal {
	total := i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	if i.Kind == ItemKindRental && i.RentalDays > 0 {
		total = total.Mul(decimal.NewFromInt(int64(i.RentalDays)))
	}
	return total
}

type Cart struct {
	ID        string
	UserID    string
	Items     []CartItem
	UpdatedAt time.Time
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums every line in ETB.
func (c *Cart) Total() (Money, error) {
	if c.IsEmpty() {
		return Money{}, NewEmptyCartError(c.ID)
	}
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return NewMoney(sum, CurrencyETB)
}
