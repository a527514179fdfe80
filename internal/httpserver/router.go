package httpserver

import (
	"cidcheck/internal/api/handlers"
	"cidcheck/internal/web"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRouter configures the main router and its sub-routers.
// It sets up the API endpoints and, when frontend is non-nil, the web interface.
func SetupRouter(h *handlers.Handlers, frontend fs.FS) *mux.Router {
	r := mux.NewRouter()
	r.Use(recoveryMiddleware, loggingMiddleware)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.NotFoundHandler = http.HandlerFunc(apiNotFound)
	apiRouter.MethodNotAllowedHandler = http.HandlerFunc(apiMethodNotAllowed)

	addInfoRoutes(apiRouter, h)
	addCIDRoutes(apiRouter, h)
	addSyncRoutes(apiRouter, h)

	if frontend != nil {
		web.AddRoutes(r, frontend, "index.html")
	}

	return r
}

// addInfoRoutes configures the read-only endpoints.
func addInfoRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/info", h.GetInfo).Methods("GET")
	r.HandleFunc("/files", h.ListFiles).Methods("GET")
	r.HandleFunc("/stats", h.GetStats).Methods("GET")
	r.HandleFunc("/history", h.GetHistory).Methods("GET")
}

func addCIDRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/check-cids", h.CheckCIDs).Methods("POST")
	r.HandleFunc("/cids/{cid}", h.GetCID).Methods("GET")
}

func addSyncRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/sync", h.TriggerSync).Methods("POST")
	r.HandleFunc("/sync/status", h.GetSyncStatus).Methods("GET")
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func apiMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
