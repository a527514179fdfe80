// filepath: internal/services/mocks/info_mock.go
package mocks

import (
	"cidcheck/internal/models"
	"cidcheck/internal/services"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockInfoService is a mock implementation of services.InfoService
type MockInfoService struct {
	mock.Mock
}

var _ services.InfoService = (*MockInfoService)(nil)

func (m *MockInfoService) GetInfo() models.Info {
	args := m.Called()
	return args.Get(0).(models.Info)
}

func (m *MockInfoService) CheckHealth(ctx context.Context) (models.Health, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Health), args.Error(1)
}
