package domain

import (
	"github.com/shopspring/decimal"
)

// CurrencyETB is the only currency the gateway settles in.
const CurrencyETB = "ETB"

// TradeType selects how the customer completes payment.
type TradeType string

const (
	TradeTypeCheckout TradeType = "Checkout"
	TradeTypeInApp    TradeType = "InApp"
)

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if !amount.IsPositive() {
		return Money{}, NewInvalidAmountError(amount.String())
	}
	if currency == "" {
		return Money{}, NewMissingRequiredFieldError("currency")
	}
	return Money{Amount: amount.Round(2), Currency: currency}, nil
}

// ParseMoney reads a gateway amount string such as "100" or "100.00".
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, NewInvalidAmountError(amount)
	}
	return NewMoney(d, currency)
}

// String renders the amount with two decimals, the form sent as total_amount.
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}
