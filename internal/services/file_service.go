// filepath: internal/services/file_service.go
package services

import (
	"cidcheck/internal/models"
	"cidcheck/internal/repository"
	"context"
	"strings"
)

const (
	DefaultFileLimit = 50
	MaxFileLimit     = 500
)

var _ FileService = (*fileService)(nil)

type fileService struct {
	Repo *repository.Repository
}

// NewFileService creates a new FileService.
func NewFileService(repo *repository.Repository) *fileService {
	return &fileService{Repo: repo}
}

// ListFiles returns one page of files. Out of range paging values fall back to defaults.
func (s *fileService) ListFiles(ctx context.Context, q models.FileListQuery) (*models.FileList, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultFileLimit
	}
	if q.Limit > MaxFileLimit {
		q.Limit = MaxFileLimit
	}
	q.Search = strings.TrimSpace(q.Search)

	files, total, err := s.Repo.ListFiles(ctx, q)
	if err != nil {
		return nil, err
	}

	return &models.FileList{
		Files: files,
		Pagination: models.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
	}, nil
}
