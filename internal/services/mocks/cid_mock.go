// filepath: internal/services/mocks/cid_mock.go
package mocks

import (
	"cidcheck/internal/models"
	"cidcheck/internal/services"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCIDService is a mock implementation of services.CIDService
type MockCIDService struct {
	mock.Mock
}

var _ services.CIDService = (*MockCIDService)(nil)

func (m *MockCIDService) CheckCIDs(ctx context.Context, cids []string, clientIP string) (*models.CIDCheckResult, error) {
	args := m.Called(ctx, cids, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CIDCheckResult), args.Error(1)
}

func (m *MockCIDService) GetCID(ctx context.Context, cid string) (*models.CIDRecord, error) {
	args := m.Called(ctx, cid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CIDRecord), args.Error(1)
}
