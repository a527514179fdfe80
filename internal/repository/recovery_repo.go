// filepath: internal/repository/recovery_repo.go
package repository

import (
	"cidcheck/internal/logging"
	"cidcheck/internal/models"
	"context"
	"time"
)

// ResetStaleSyncFlag clears a sync_in_progress flag left behind by a crashed run.
// With dryRun set it only reports whether the flag is set. It returns true if the
// flag was (or would have been) reset.
func (s *Repository) ResetStaleSyncFlag(ctx context.Context, dryRun bool) (bool, error) {
	status, err := s.GetSyncStatus(ctx)
	if err != nil {
		return false, err
	}
	if !status.InProgress {
		return false, nil
	}

	if dryRun {
		logging.Log.Warnf("DRY RUN: %s is set and would be reset", models.ConfigSyncInProgress)
		return true, nil
	}

	if err := s.ReleaseSyncFlag(ctx, time.Now()); err != nil {
		return false, err
	}
	logging.Log.Warnf("Reset stale %s flag", models.ConfigSyncInProgress)
	return true, nil
}
