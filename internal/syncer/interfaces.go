// filepath: internal/syncer/interfaces.go
package syncer

import (
	"cidcheck/internal/drive"
	"cidcheck/internal/models"
	"cidcheck/internal/repository"
	"context"
	"time"
)

// DBTX defines the database methods required by the sync routine.
type DBTX interface {
	AcquireSyncFlag(ctx context.Context, now time.Time) (bool, error)
	ReleaseSyncFlag(ctx context.Context, now time.Time) error
	BeginTx(ctx context.Context) (*repository.Tx, error)
	RecheckNotFoundCIDs(ctx context.Context, now time.Time) (int64, error)
}

// DriveTX defines the Drive calls required by the sync routine.
type DriveTX interface {
	ResolveFolder(ctx context.Context, path string) (string, error)
	ListChildren(ctx context.Context, folderID, pageToken string) (*drive.Page, error)
}

var (
	_ DBTX    = (*repository.Repository)(nil)
	_ DriveTX = (*drive.Client)(nil)
)

// ProgressFunc is called after each file is written with the number of files
// processed so far and the total collected.
type ProgressFunc func(done, total int)

// Reporter receives the outcome of every finished run.
type Reporter func(report *models.SyncReport, err error)
