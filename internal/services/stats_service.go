// filepath: internal/services/stats_service.go
package services

import (
	"cidcheck/internal/models"
	"cidcheck/internal/repository"
	"context"

	"github.com/dustin/go-humanize"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

var (
	_ StatsService   = (*statsService)(nil)
	_ HistoryService = (*historyService)(nil)
)

type statsService struct {
	Repo *repository.Repository
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo *repository.Repository) *statsService {
	return &statsService{Repo: repo}
}

// GetStats aggregates counters over files, CIDs and the sync state.
func (s *statsService) GetStats(ctx context.Context) (*models.Stats, error) {
	files, size, err := s.Repo.CountFiles(ctx)
	if err != nil {
		return nil, err
	}
	total, found, notFound, err := s.Repo.CountCIDs(ctx)
	if err != nil {
		return nil, err
	}
	status, err := s.Repo.GetSyncStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Stats{
		TotalFiles:     files,
		TotalSizeBytes: size,
		TotalSize:      humanize.IBytes(uint64(size)),
		TotalCIDs:      total,
		FoundCIDs:      found,
		NotFoundCIDs:   notFound,
		LastSyncTime:   status.LastSyncTime,
		SyncInProgress: status.InProgress,
		FilesSynced:    status.TotalFilesSynced,
	}, nil
}

type historyService struct {
	Repo *repository.Repository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo *repository.Repository) *historyService {
	return &historyService{Repo: repo}
}

// GetHistory returns the latest history rows, newest first.
func (s *historyService) GetHistory(ctx context.Context, limit int) ([]models.QueryHistory, error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.Repo.ListQueryHistory(ctx, limit)
}
