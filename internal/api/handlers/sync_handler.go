// filepath: internal/api/handlers/sync_handler.go
package handlers

import (
	"net/http"
)

// @Summary Trigger a Drive sync
// @Description Starts a background sync and returns immediately.
// @Tags Sync
// @Produce  json
// @Success 202 {object} models.SyncAccepted
// @Failure 409 {object} ErrorResponse "A sync is already running"
// @Failure 503 {object} ErrorResponse "Drive is not configured"
// @Router /sync [post]
func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	accepted, err := h.Sync.TriggerSync(r.Context(), clientIP(r))
	if err != nil {
		respondWithServiceError(w, err, "Failed to start sync.")
		return
	}
	respondWithJSON(w, http.StatusAccepted, accepted)
}

// @Summary Get sync status
// @Tags Sync
// @Produce  json
// @Success 200 {object} models.SyncStatus
// @Router /sync/status [get]
func (h *Handlers) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Sync.GetStatus(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Failed to get sync status.")
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}
