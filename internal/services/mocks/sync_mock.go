// filepath: internal/services/mocks/sync_mock.go
package mocks

import (
	"cidcheck/internal/models"
	"cidcheck/internal/services"
	"cidcheck/internal/syncer"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSyncService is a mock implementation of services.SyncService
type MockSyncService struct {
	mock.Mock
}

var _ services.SyncService = (*MockSyncService)(nil)

func (m *MockSyncService) Start() {
	m.Called()
}

func (m *MockSyncService) Stop() {
	m.Called()
}

func (m *MockSyncService) TriggerSync(ctx context.Context, actor string) (*models.SyncAccepted, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncAccepted), args.Error(1)
}

func (m *MockSyncService) RunSync(ctx context.Context, progress syncer.ProgressFunc) (*models.SyncReport, error) {
	args := m.Called(ctx, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncReport), args.Error(1)
}

func (m *MockSyncService) GetStatus(ctx context.Context) (*models.SyncStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncStatus), args.Error(1)
}
