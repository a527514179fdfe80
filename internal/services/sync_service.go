// filepath: internal/services/sync_service.go
package services

import (
	"cidcheck/internal/config"
	"cidcheck/internal/logging"
	"cidcheck/internal/models"
	"cidcheck/internal/repository"
	"cidcheck/internal/syncer"
	"context"
	"errors"
	"fmt"
	"sync"
)

var _ SyncService = (*syncService)(nil)

// syncService owns the lifetime of background syncs: HTTP triggered runs and
// the scheduled worker share one cancellable context.
type syncService struct {
	Repo    *repository.Repository
	Auditor Auditor

	deps   syncer.Dependencies
	opts   syncer.Options
	worker *syncer.Service

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncService creates a new SyncService. driveClient may be nil when no
// credentials are configured; syncs then fail with ErrUnavailable.
func NewSyncService(repo *repository.Repository, driveClient syncer.DriveTX, auditor Auditor, cfg *config.Config) *syncService {
	deps := syncer.Dependencies{DB: repo, Drive: driveClient}
	opts := syncer.Options{
		FolderPath: cfg.Drive.TargetFolderPath,
		MaxDepth:   cfg.Drive.MaxDepth,
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &syncService{
		Repo:    repo,
		Auditor: auditor,
		deps:    deps,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.worker = syncer.NewService(deps, opts, cfg.SyncIntervalDuration, cfg.Sync.OnStartup)
	return s
}

// Start begins the scheduled sync worker, if one is configured.
func (s *syncService) Start() {
	if s.deps.Drive == nil {
		if s.worker.Enabled() {
			logging.Log.Warn("Scheduled Drive sync requested but Drive credentials are missing; not starting.")
		}
		return
	}
	s.worker.Start()
}

// Stop cancels running syncs and waits for them to finish.
func (s *syncService) Stop() {
	s.cancel()
	s.worker.Stop()
	s.wg.Wait()
}

// TriggerSync acquires the sync flag and runs a sync in the background.
func (s *syncService) TriggerSync(ctx context.Context, actor string) (*models.SyncAccepted, error) {
	if s.deps.Drive == nil {
		return nil, fmt.Errorf("%w: google drive is not configured", ErrUnavailable)
	}
	if err := syncer.TryAcquire(ctx, s.deps.DB); err != nil {
		if errors.Is(err, syncer.ErrSyncInProgress) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	opts := s.opts
	opts.SyncID = syncer.NewSyncID()

	if s.Auditor != nil {
		s.Auditor.Log(ctx, "sync.trigger", actor, "drive:"+opts.FolderPath, map[string]interface{}{
			"sync_id": opts.SyncID,
		})
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := syncer.RunAcquired(s.ctx, s.deps, opts); err != nil {
			logging.Log.WithField("sync_id", opts.SyncID).Errorf("Background sync failed: %v", err)
		}
	}()

	return &models.SyncAccepted{
		Message: "Sync started, check /api/sync/status for progress",
		SyncID:  opts.SyncID,
	}, nil
}

// RunSync runs one sync in the foreground.
func (s *syncService) RunSync(ctx context.Context, progress syncer.ProgressFunc) (*models.SyncReport, error) {
	if s.deps.Drive == nil {
		return nil, fmt.Errorf("%w: google drive is not configured", ErrUnavailable)
	}
	opts := s.opts
	opts.Progress = progress
	report, err := syncer.Run(ctx, s.deps, opts)
	if errors.Is(err, syncer.ErrSyncInProgress) {
		return nil, fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return report, err
}

// GetStatus reports the sync flag and the outcome of the last successful run.
func (s *syncService) GetStatus(ctx context.Context) (*models.SyncStatus, error) {
	return s.Repo.GetSyncStatus(ctx)
}
