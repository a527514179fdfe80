// filepath: internal/api/handlers/health_handler.go
package handlers

import (
	"cidcheck/internal/logging"
	"net/http"
)

// @Summary Health check
// @Description Reports whether the service and its database are reachable.
// @Tags Info
// @Produce  json
// @Success 200 {object} models.Health
// @Failure 503 {object} models.Health
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health, err := h.Info.CheckHealth(r.Context())
	if err != nil {
		logging.Log.Warnf("Health check failed: %v", err)
		respondWithJSON(w, http.StatusServiceUnavailable, health)
		return
	}
	respondWithJSON(w, http.StatusOK, health)
}
