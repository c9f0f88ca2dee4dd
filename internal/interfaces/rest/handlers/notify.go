package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DanielPopoola/telebirr-checkout/internal/application"
	"github.com/DanielPopoola/telebirr-checkout/internal/domain"
	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest"
)

type notifyResponse struct {
	MerchOrderID string `json:"merchOrderId"`
	Status       string `json:"status"`
}

// HandleNotify godoc
// @Summary Gateway payment notification
// @Tags telebirr
// @Success 200 {object} notifyResponse
// @Router /api/telebirrnotify [post]
func (h *Handlers) HandleNotify(w http.ResponseWriter, r *http.Request) {
	var n domain.OrderNotification
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&n); err != nil {
		h.writeError(w, application.NewInvalidInputError(err))
		return
	}

	attempt, err := h.notify.HandleNotification(r.Context(), n)
	if err != nil {
		h.writeError(w, err)
		return
	}

	rest.RespondWithJSON(w, http.StatusOK, notifyResponse{
		MerchOrderID: attempt.MerchOrderID,
		Status:       string(attempt.Status),
	})
}
