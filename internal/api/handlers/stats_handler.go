// filepath: internal/api/handlers/stats_handler.go
package handlers

import (
	"cidcheck/internal/services"
	"net/http"
)

// @Summary Get statistics
// @Tags Stats
// @Produce  json
// @Success 200 {object} models.Stats
// @Failure 500 {object} ErrorResponse
// @Router /stats [get]
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.GetStats(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Failed to get statistics.")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// @Summary Get query history
// @Description Returns the latest batch checks, newest first.
// @Tags Stats
// @Produce  json
// @Param   limit  query  int  false  "Number of rows (default 20, max 200)"
// @Success 200 {array} models.QueryHistory
// @Router /history [get]
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.History.GetHistory(r.Context(), queryInt(r, "limit", services.DefaultHistoryLimit))
	if err != nil {
		respondWithServiceError(w, err, "Failed to get query history.")
		return
	}
	respondWithJSON(w, http.StatusOK, history)
}
