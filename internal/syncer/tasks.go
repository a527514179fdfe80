// filepath: internal/syncer/tasks.go
package syncer

import (
	"cidcheck/internal/logging"
	"cidcheck/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

var (
	ErrSyncInProgress   = errors.New("a sync is already in progress")
	ErrMaxDepthExceeded = errors.New("folder tree exceeds the maximum depth")
)

// Dependencies defines the required services for a sync run.
type Dependencies struct {
	DB    DBTX
	Drive DriveTX
}

// Options controls a single sync run.
type Options struct {
	SyncID     string // generated when empty
	FolderPath string
	MaxDepth   int // 0 means unbounded
	Progress   ProgressFunc
}

// NewSyncID returns a new sortable run id.
func NewSyncID() string {
	return ulid.Make().String()
}

// CollectFiles walks the folder tree below rootID and returns every non-folder
// descendant. Paths are relative to the root folder.
func CollectFiles(ctx context.Context, lister DriveTX, rootID string, maxDepth int) ([]models.FileRecord, error) {
	files := make([]models.FileRecord, 0)
	if err := collect(ctx, lister, rootID, "", 0, maxDepth, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func collect(ctx context.Context, lister DriveTX, folderID, path string, depth, maxDepth int, out *[]models.FileRecord) error {
	pageToken := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := lister.ListChildren(ctx, folderID, pageToken)
		if err != nil {
			return err
		}

		for _, item := range page.Items {
			itemPath := item.Name
			if path != "" {
				itemPath = path + "/" + item.Name
			}

			if item.IsFolder() {
				if maxDepth > 0 && depth+1 > maxDepth {
					return fmt.Errorf("%w (%d) at %q", ErrMaxDepthExceeded, maxDepth, itemPath)
				}
				if err := collect(ctx, lister, item.ID, itemPath, depth+1, maxDepth, out); err != nil {
					return err
				}
				continue
			}

			*out = append(*out, models.FileRecord{
				ID:           item.ID,
				Name:         item.Name,
				Path:         itemPath,
				Size:         item.Size,
				MimeType:     item.MimeType,
				ModifiedTime: item.ModifiedTime,
			})
		}

		if page.NextPageToken == "" {
			return nil
		}
		pageToken = page.NextPageToken
	}
}

// Run mirrors the configured Drive folder into the files table.
// Only one run may hold the sync flag at a time.
func Run(ctx context.Context, deps Dependencies, opts Options) (*models.SyncReport, error) {
	if err := TryAcquire(ctx, deps.DB); err != nil {
		return nil, err
	}
	return RunAcquired(ctx, deps, opts)
}

// TryAcquire sets the sync flag or returns ErrSyncInProgress if it is already held.
func TryAcquire(ctx context.Context, db DBTX) error {
	acquired, err := db.AcquireSyncFlag(ctx, time.Now())
	if err != nil {
		return err
	}
	if !acquired {
		return ErrSyncInProgress
	}
	return nil
}

// RunAcquired performs a sync for a caller that already holds the sync flag.
// The flag is released on every exit path.
func RunAcquired(ctx context.Context, deps Dependencies, opts Options) (*models.SyncReport, error) {
	report := &models.SyncReport{SyncID: opts.SyncID, StartedAt: time.Now()}
	if report.SyncID == "" {
		report.SyncID = NewSyncID()
	}
	log := logging.Log.WithField("sync_id", report.SyncID)

	defer func() {
		if err := deps.DB.ReleaseSyncFlag(context.WithoutCancel(ctx), time.Now()); err != nil {
			log.Errorf("Failed to release sync flag: %v", err)
		}
	}()

	log.Infof("Starting Drive sync of %q", opts.FolderPath)

	folderID, err := deps.Drive.ResolveFolder(ctx, opts.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target folder: %w", err)
	}
	report.FolderID = folderID

	files, err := CollectFiles(ctx, deps.Drive, folderID, opts.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	report.FilesFound = len(files)
	log.Infof("Found %s files in folder %s", humanize.Comma(int64(len(files))), folderID)

	if err := writeFiles(ctx, deps, files, report, opts.Progress); err != nil {
		return nil, err
	}

	flipped, err := deps.DB.RecheckNotFoundCIDs(ctx, time.Now())
	if err != nil {
		log.Warnf("Failed to recheck not-found CIDs: %v", err)
	}
	report.CIDsFlipped = flipped
	report.Duration = time.Since(report.StartedAt)

	log.WithFields(logrus.Fields{
		"files_synced": report.FilesSynced,
		"files_failed": report.FilesFailed,
		"cids_flipped": report.CIDsFlipped,
	}).Infof("Sync finished in %s", report.Duration.Round(time.Millisecond))

	return report, nil
}

// writeFiles upserts files in one transaction. Per-file failures are logged and skipped.
func writeFiles(ctx context.Context, deps Dependencies, files []models.FileRecord, report *models.SyncReport, progress ProgressFunc) error {
	tx, err := deps.DB.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tx.UpsertFileInTx(ctx, file, time.Now()); err != nil {
			logging.Log.WithField("sync_id", report.SyncID).
				Warnf("Skipping file %s (%s): %v", file.ID, file.Name, err)
			report.FilesFailed++
		} else {
			report.FilesSynced++
		}
		if progress != nil {
			progress(i+1, len(files))
		}
	}

	if err := tx.RecordSyncResultInTx(ctx, report.FilesSynced, time.Now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sync: %w", err)
	}
	committed = true
	return nil
}
