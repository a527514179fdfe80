// filepath: internal/services/mocks/stats_mock.go
package mocks

import (
	"cidcheck/internal/models"
	"cidcheck/internal/services"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStatsService is a mock implementation of services.StatsService
type MockStatsService struct {
	mock.Mock
}

var _ services.StatsService = (*MockStatsService)(nil)

func (m *MockStatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

// MockHistoryService is a mock implementation of services.HistoryService
type MockHistoryService struct {
	mock.Mock
}

var _ services.HistoryService = (*MockHistoryService)(nil)

func (m *MockHistoryService) GetHistory(ctx context.Context, limit int) ([]models.QueryHistory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QueryHistory), args.Error(1)
}
