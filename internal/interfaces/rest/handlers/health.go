package handlers

import (
	"net/http"

	"github.com/DanielPopoola/telebirr-checkout/internal/interfaces/rest"
)

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	for _, dep := range h.health {
		if err := dep.Ping(r.Context()); err != nil {
			h.logger.Warn("health check failed", "error", err)
			rest.WriteErrorResponse(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Dependency unavailable")
			return
		}
	}
	rest.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
