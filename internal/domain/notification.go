package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderNotification is the payment-status callback posted by the gateway.
// OrderID carries the merch_order_id issued at checkout.
type OrderNotification struct {
	OrderID     string `json:"orderId"`
	TotalAmount string `json:"totalAmount"`
	Sign        string `json:"sign"`
}

// UnmarshalJSON accepts totalAmount as a JSON string or a JSON number. A number
// keeps its literal text, since the signature covers exactly what was sent.
func (n *OrderNotification) UnmarshalJSON(data []byte) error {
	var wire struct {
		OrderID     string          `json:"orderId"`
		TotalAmount json.RawMessage `json:"totalAmount"`
		Sign        string          `json:"sign"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	amount, err := amountLiteral(wire.TotalAmount)
	if err != nil {
		return err
	}

	*n = OrderNotification{OrderID: wire.OrderID, TotalAmount: amount, Sign: wire.Sign}
	return nil
}

func amountLiteral(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return "", err
		}
		return num.String(), nil
	default:
		return "", fmt.Errorf("totalAmount must be a string or a number, got %s", raw)
	}
}

// PaymentUpdate is pushed to connected clients once an attempt settles.
type PaymentUpdate struct {
	MerchOrderID string        `json:"merch_order_id"`
	OrderID      string        `json:"order_id,omitempty"`
	UserID       string        `json:"user_id"`
	Status       AttemptStatus `json:"status"`
	Timestamp    int64         `json:"timestamp"`
}
