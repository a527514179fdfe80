// filepath: internal/services/mocks/file_mock.go
package mocks

import (
	"cidcheck/internal/models"
	"cidcheck/internal/services"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFileService is a mock implementation of services.FileService
type MockFileService struct {
	mock.Mock
}

var _ services.FileService = (*MockFileService)(nil)

func (m *MockFileService) ListFiles(ctx context.Context, q models.FileListQuery) (*models.FileList, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FileList), args.Error(1)
}
