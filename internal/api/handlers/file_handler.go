// filepath: internal/api/handlers/file_handler.go
package handlers

import (
	"cidcheck/internal/models"
	"cidcheck/internal/services"
	"net/http"
)

// @Summary List mirrored files
// @Description Returns one page of synced files, newest modification first. The search term matches file names and paths case-insensitively.
// @Tags Files
// @Produce  json
// @Param   page    query  int     false  "Page number (default 1)"
// @Param   limit   query  int     false  "Page size (default 50, max 500)"
// @Param   search  query  string  false  "Substring of name or path"
// @Success 200 {object} models.FileList
// @Failure 500 {object} ErrorResponse
// @Router /files [get]
func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	q := models.FileListQuery{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", services.DefaultFileLimit),
		Search: r.URL.Query().Get("search"),
	}

	list, err := h.Files.ListFiles(r.Context(), q)
	if err != nil {
		respondWithServiceError(w, err, "Failed to list files.")
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}
