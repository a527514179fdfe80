// filepath: internal/api/handlers/responses.go
package handlers

import (
	"cidcheck/internal/logging"
	"cidcheck/internal/services"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorResponse is a standard format for API error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a standard format for simple API messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError maps service sentinel errors to status codes.
// Unknown errors are logged and reported with the generic message.
func respondWithServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logging.Log.Errorf("%s: %v", message, err)
		respondWithError(w, http.StatusInternalServerError, message)
	}
}
