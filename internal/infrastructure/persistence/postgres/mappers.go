package postgres

import (
	"fmt"

	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

func toDomainAttempt(m AttemptModel) (*domain.PaymentAttempt, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("attempt %s amount: %w", m.MerchOrderID, err)
	}

	return &domain.PaymentAttempt{
		ID:                m.ID,
		MerchOrderID:      m.MerchOrderID,
		IdempotencyKey:    deref(m.IdempotencyKey),
		RequestHash:       deref(m.RequestHash),
		CartID:            m.CartID,
		UserID:            m.UserID,
		Amount:            domain.Money{Amount: amount, Currency: m.Currency},
		TradeType:         domain.TradeType(m.TradeType),
		Status:            domain.AttemptStatus(m.Status),
		PrepayID:          m.PrepayID,
		CheckoutURL:       m.CheckoutURL,
		OrderID:           m.OrderID,
		LastErrorCategory: m.LastErrorCategory,
		CreatedAt:         m.CreatedAt,
		ExpiresAt:         m.ExpiresAt,
		PaidAt:            m.PaidAt,
	}, nil
}

func toAttemptModel(a *domain.PaymentAttempt) AttemptModel {
	return AttemptModel{
		ID:                a.ID,
		MerchOrderID:      a.MerchOrderID,
		IdempotencyKey:    nullable(a.IdempotencyKey),
		RequestHash:       nullable(a.RequestHash),
		CartID:            a.CartID,
		UserID:            a.UserID,
		Amount:            a.Amount.String(),
		Currency:          a.Amount.Currency,
		TradeType:         string(a.TradeType),
		Status:            string(a.Status),
		PrepayID:          a.PrepayID,
		CheckoutURL:       a.CheckoutURL,
		OrderID:           a.OrderID,
		LastErrorCategory: a.LastErrorCategory,
		CreatedAt:         a.CreatedAt,
		ExpiresAt:         a.ExpiresAt,
		PaidAt:            a.PaidAt,
	}
}

func toDomainCartItem(m CartItemModel) (domain.CartItem, error) {
	price, err := decimal.NewFromString(m.UnitPrice)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("cart item %s price: %w", m.ID, err)
	}
	return domain.CartItem{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Title:      m.Title,
		Kind:       domain.ItemKind(m.Kind),
		Quantity:   m.Quantity,
		RentalDays: m.RentalDays,
		UnitPrice:  price,
	}, nil
}

func toDomainOrder(m OrderModel, items []OrderItemModel) (*domain.Order, error) {
	total, err := decimal.NewFromString(m.Total)
	if err != nil {
		return nil, fmt.Errorf("order %s total: %w", m.ID, err)
	}

	order := &domain.Order{
		ID:           m.ID,
		UserID:       m.UserID,
		CartID:       m.CartID,
		MerchOrderID: m.MerchOrderID,
		Total:        domain.Money{Amount: total, Currency: m.Currency},
		Status:       domain.OrderStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		Items:        make([]domain.OrderItem, 0, len(items)),
	}

	for _, it := range items {
		unit, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s item price: %w", m.ID, err)
		}
		line, err := decimal.NewFromString(it.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("order %s line total: %w", m.ID, err)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:  it.ProductID,
			Title:      it.Title,
			Kind:       domain.ItemKind(it.Kind),
			Quantity:   it.Quantity,
			RentalDays: it.RentalDays,
			UnitPrice:  domain.Money{Amount: unit, Currency: m.Currency},
			LineTotal:  domain.Money{Amount: line, Currency: m.Currency},
		})
	}
	return order, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
