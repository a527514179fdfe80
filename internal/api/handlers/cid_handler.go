// filepath: internal/api/handlers/cid_handler.go
package handlers

import (
	"cidcheck/internal/models"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// @Summary Check a batch of CIDs
// @Description Matches every CID as a case-sensitive substring of the synced file names and records the result.
// @Tags CIDs
// @Accept  json
// @Produce  json
// @Param   payload  body  models.CheckCIDsPayload  true  "CIDs to check"
// @Success 200 {object} models.CIDCheckResult
// @Failure 400 {object} ErrorResponse "Malformed body or empty batch"
// @Failure 500 {object} ErrorResponse
// @Router /check-cids [post]
func (h *Handlers) CheckCIDs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var payload models.CheckCIDsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: expected {\"cids\": [...]}")
		return
	}
	if payload.CIDs == nil {
		respondWithError(w, http.StatusBadRequest, "cids must be an array")
		return
	}

	result, err := h.CIDs.CheckCIDs(r.Context(), payload.CIDs, clientIP(r))
	if err != nil {
		respondWithServiceError(w, err, "Failed to check CIDs.")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// @Summary Get a CID
// @Description Returns the stored state of a single CID.
// @Tags CIDs
// @Produce  json
// @Param   cid  path  string  true  "CID"
// @Success 200 {object} models.CIDRecord
// @Failure 404 {object} ErrorResponse
// @Router /cids/{cid} [get]
func (h *Handlers) GetCID(w http.ResponseWriter, r *http.Request) {
	cid := mux.Vars(r)["cid"]

	rec, err := h.CIDs.GetCID(r.Context(), cid)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get CID.")
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}
