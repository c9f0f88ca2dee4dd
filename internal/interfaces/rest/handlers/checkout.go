package handlers

import (
	"net/http"

	"github.com/DanielPopoola/telebirr-checkout/internal/application/services"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest"
)

const idempotencyHeader = "Idempotency-Key"

// HandleCheckout godoc
// @Summary Start a web checkout for the caller's cart
// @Tags checkout
// @Param Idempotency-Key header string false "client retry key"
// @Success 201 {object} rest.AttemptResponse
// @Router /api/checkout [post]
func (h *Handlers) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req rest.CheckoutRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	attempt, err := h.checkout.Checkout(r.Context(), services.CheckoutCommand{
		UserID: userID,
		Title:  req.Title,
	}, r.Header.Get(idempotencyHeader))
	if err != nil {
		h.writeError(w, err)
		return
	}

	rest.RespondWithJSON(w, checkoutStatus(attempt), rest.ToAttemptResponse(attempt))
}

// HandleMandateCheckout godoc
// @Summary Start an in-app mandate order and return the signed raw request
// @Tags checkout
// @Param Idempotency-Key header string false "client retry key"
// @Success 201 {object} rest.AttemptResponse
// @Router /api/checkout/mandate [post]
func (h *Handlers) HandleMandateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req rest.MandateCheckoutRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	attempt, err := h.checkout.CheckoutMandate(r.Context(), services.MandateCheckoutCommand{
		UserID:      userID,
		Title:       req.Title,
		ContractNo:  req.ContractNo,
		TemplateID:  req.TemplateID,
		ExecuteTime: req.ExecuteTime,
	}, r.Header.Get(idempotencyHeader))
	if err != nil {
		h.writeError(w, err)
		return
	}

	rest.RespondWithJSON(w, checkoutStatus(attempt), rest.ToAttemptResponse(attempt))
}

// checkoutStatus is 201 for a new checkout and 200 for a replayed one that has
// already been paid.
func checkoutStatus(attempt *domain.PaymentAttempt) int {
	if attempt.Status == domain.StatusPaid {
		return http.StatusOK
	}
	return http.StatusCreated
}
