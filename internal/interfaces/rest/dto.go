package rest

import (
	"time"

	"github.com/DanielPopoola/telebirr-checkout/internal/application/services"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
)

type CheckoutRequest struct {
	Title string `json:"title" validate:"max=128"`
}

type MandateCheckoutRequest struct {
	Title       string `json:"title" validate:"max=128"`
	ContractNo  string `json:"contractNo" validate:"required"`
	TemplateID  string `json:"templateId" validate:"required"`
	ExecuteTime string `json:"executeTime" validate:"required"`
}

type AuthTokenRequest struct {
	AuthToken string `json:"authToken" validate:"required"`
}

type AttemptResponse struct {
	MerchOrderID string     `json:"merchOrderId"`
	Status       string     `json:"status"`
	TradeType    string     `json:"tradeType"`
	Amount       string     `json:"amount"`
	Currency     string     `json:"currency"`
	CheckoutURL  string     `json:"checkoutUrl,omitempty"`
	RawRequest   string     `json:"rawRequest,omitempty"`
	OrderID      string     `json:"orderId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
}

type OrderItemResponse struct {
	ProductID  string `json:"productId"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	Quantity   int    `json:"quantity"`
	RentalDays int    `json:"rentalDays,omitempty"`
	UnitPrice  string `json:"unitPrice"`
	LineTotal  string `json:"lineTotal"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	Total     string              `json:"total"`
	Currency  string              `json:"currency"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"createdAt"`
}

type OrderStatusResponse struct {
	Attempt AttemptResponse `json:"attempt"`
	Order   *OrderResponse  `json:"order,omitempty"`
}

// ToAttemptResponse puts the stored checkout string under checkoutUrl for web
// checkouts and under rawRequest for in-app orders.
func ToAttemptResponse(a *domain.PaymentAttempt) AttemptResponse {
	resp := AttemptResponse{
		MerchOrderID: a.MerchOrderID,
		Status:       string(a.Status),
		TradeType:    string(a.TradeType),
		Amount:       a.Amount.String(),
		Currency:     a.Amount.Currency,
		CreatedAt:    a.CreatedAt,
		ExpiresAt:    a.ExpiresAt,
		PaidAt:       a.PaidAt,
	}

	if a.CheckoutURL != nil {
		if a.TradeType == domain.TradeTypeInApp {
			resp.RawRequest = *a.CheckoutURL
		} else {
			resp.CheckoutURL = *a.CheckoutURL
		}
	}
	if a.OrderID != nil {
		resp.OrderID = *a.OrderID
	}

	return resp
}

func ToOrderResponse(o *domain.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:  item.ProductID,
			Title:      item.Title,
			Kind:       string(item.Kind),
			Quantity:   item.Quantity,
			RentalDays: item.RentalDays,
			UnitPrice:  item.UnitPrice.String(),
			LineTotal:  item.LineTotal.String(),
		})
	}

	return &OrderResponse{
		ID:        o.ID,
		Total:     o.Total.String(),
		Currency:  o.Total.Currency,
		Status:    string(o.Status),
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}

func ToOrderStatusResponse(s *services.OrderStatus) OrderStatusResponse {
	resp := OrderStatusResponse{Attempt: ToAttemptResponse(s.Attempt)}
	if s.Order != nil {
		resp.Order = ToOrderResponse(s.Order)
	}
	return resp
}
