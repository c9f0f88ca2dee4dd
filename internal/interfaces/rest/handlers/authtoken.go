package handlers

import (
	"net/http"

	"github.com/DanielPopoola/telebirr-checkout/internal/application/services"
	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest"
)

// HandleAuthToken godoc
// @Summary Exchange a customer app token for a gateway auth token
// @Tags telebirr
// @Success 200 {object} object "gateway response body"
// @Router /api/telebirr/authtoken [post]
func (h *Handlers) HandleAuthToken(w http.ResponseWriter, r *http.Request) {
	var req rest.AuthTokenRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	body, err := h.authToken.RequestAuthToken(r.Context(), services.AuthTokenCommand{AppToken: req.AuthToken})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
