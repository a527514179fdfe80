// filepath: internal/services/interfaces.go
package services

import (
	"cidcheck/internal/models"
	"cidcheck/internal/syncer"
	"context"
)

// Auditor defines the interface for recording operator-visible events.
type Auditor interface {
	// Log records an event.
	// action: what happened (e.g., "sync.trigger", "cid.check")
	// actor: who did it (client address)
	// resource: what was affected (e.g., "drive:/media", "cids:12")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
	CheckHealth(ctx context.Context) (models.Health, error)
}

// FileService defines the interface for browsing the mirrored listing.
type FileService interface {
	ListFiles(ctx context.Context, q models.FileListQuery) (*models.FileList, error)
}

// CIDService defines the interface for batch CID checks.
type CIDService interface {
	CheckCIDs(ctx context.Context, cids []string, clientIP string) (*models.CIDCheckResult, error)
	GetCID(ctx context.Context, cid string) (*models.CIDRecord, error)
}

// StatsService defines the interface for aggregate counters.
type StatsService interface {
	GetStats(ctx context.Context) (*models.Stats, error)
}

// HistoryService defines the interface for the query history log.
type HistoryService interface {
	GetHistory(ctx context.Context, limit int) ([]models.QueryHistory, error)
}

// SyncService defines the interface for Drive synchronization.
type SyncService interface {
	Start()
	Stop()
	TriggerSync(ctx context.Context, actor string) (*models.SyncAccepted, error)
	RunSync(ctx context.Context, progress syncer.ProgressFunc) (*models.SyncReport, error)
	GetStatus(ctx context.Context) (*models.SyncStatus, error)
}
