// filepath: internal/api/handlers/main.go
package handlers

import (
	"cidcheck/internal/services"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 10 << 20

// Handlers provides a struct to hold shared dependencies for API handlers.
type Handlers struct {
	Info    services.InfoService
	Files   services.FileService
	CIDs    services.CIDService
	Stats   services.StatsService
	History services.HistoryService
	Sync    services.SyncService
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	files services.FileService,
	cids services.CIDService,
	stats services.StatsService,
	history services.HistoryService,
	sync services.SyncService,
) *Handlers {
	return &Handlers{
		Info:    info,
		Files:   files,
		CIDs:    cids,
		Stats:   stats,
		History: history,
		Sync:    sync,
	}
}
