package handlers

import (
	"net/http"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest"
	"github.com/oapi-codegen/runtime"
)

// HandleGetOrder godoc
// @Summary Checkout status, with the order once paid
// @Tags orders
// @Param merchOrderId path string true "merchant order id"
// @Success 200 {object} rest.OrderStatusResponse
// @Router /api/orders/{merchOrderId} [get]
func (h *Handlers) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var merchOrderID string
	err = runtime.BindStyledParameterWithOptions("simple", "merchOrderId", r.PathValue("merchOrderId"), &merchOrderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		h.writeError(w, application.NewInvalidInputError(err))
		return
	}

	status, err := h.query.FindByMerchOrderID(r.Context(), userID, merchOrderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	rest.RespondWithJSON(w, http.StatusOK, rest.ToOrderStatusResponse(status))
}
