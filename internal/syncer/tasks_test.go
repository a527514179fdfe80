// filepath: internal/syncer/tasks_test.go
package syncer

import (
	"cidcheck/internal/config"
	"cidcheck/internal/drive"
	"cidcheck/internal/models"
	"cidcheck/internal/repository"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDrive is a mock implementation of the DriveTX interface for testing.
type MockDrive struct {
	mock.Mock
}

func (m *MockDrive) ResolveFolder(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockDrive) ListChildren(ctx context.Context, folderID, pageToken string) (*drive.Page, error) {
	args := m.Called(ctx, folderID, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*drive.Page), args.Error(1)
}

func setupTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "sync.db")}}
	repo, err := repository.NewRepository(cfg)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate("up"))
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sizePtr(n int64) *int64 { return &n }

// mockTree sets up a root with two pages and one sub folder.
func mockTree(m *MockDrive) {
	modified := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	m.On("ListChildren", mock.Anything, "root-id", "").Return(&drive.Page{
		Items: []drive.Item{
			{ID: "f1", Name: "CID001_scan.pdf", MimeType: "application/pdf", Size: sizePtr(100), ModifiedTime: modified},
			{ID: "d1", Name: "sub", MimeType: drive.FolderMimeType},
		},
		NextPageToken: "page-2",
	}, nil)
	m.On("ListChildren", mock.Anything, "root-id", "page-2").Return(&drive.Page{
		Items: []drive.Item{
			{ID: "f2", Name: "notes.txt", MimeType: "text/plain", Size: sizePtr(5), ModifiedTime: modified},
		},
	}, nil)
	m.On("ListChildren", mock.Anything, "d1", "").Return(&drive.Page{
		Items: []drive.Item{
			{ID: "f3", Name: "CID002_sheet", MimeType: "application/vnd.google-apps.spreadsheet", ModifiedTime: modified},
		},
	}, nil)
}

func TestCollectFiles(t *testing.T) {
	m := new(MockDrive)
	mockTree(m)

	files, err := CollectFiles(context.Background(), m, "root-id", 0)
	require.NoError(t, err)
	require.Len(t, files, 3)

	paths := map[string]string{}
	for _, f := range files {
		paths[f.ID] = f.Path
	}
	assert.Equal(t, "CID001_scan.pdf", paths["f1"])
	assert.Equal(t, "sub/CID002_sheet", paths["f3"])
	assert.Equal(t, "notes.txt", paths["f2"])
	m.AssertExpectations(t)
}

func TestCollectFiles_MaxDepth(t *testing.T) {
	m := new(MockDrive)
	mockTree(m)

	_, err := CollectFiles(context.Background(), m, "root-id", 1)
	assert.NoError(t, err, "one level of folders is allowed")

	m2 := new(MockDrive)
	m2.On("ListChildren", mock.Anything, "root-id", "").Return(&drive.Page{
		Items: []drive.Item{{ID: "d1", Name: "a", MimeType: drive.FolderMimeType}},
	}, nil)
	m2.On("ListChildren", mock.Anything, "d1", "").Return(&drive.Page{
		Items: []drive.Item{{ID: "d2", Name: "b", MimeType: drive.FolderMimeType}},
	}, nil)

	_, err = CollectFiles(context.Background(), m2, "root-id", 1)
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)
}

func TestCollectFiles_ListError(t *testing.T) {
	m := new(MockDrive)
	m.On("ListChildren", mock.Anything, "root-id", "").Return(nil, errors.New("quota exceeded"))

	_, err := CollectFiles(context.Background(), m, "root-id", 0)
	assert.Error(t, err)
}

func TestRun_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)
	m := new(MockDrive)
	m.On("ResolveFolder", mock.Anything, "/media").Return("root-id", nil)
	mockTree(m)
	deps := Dependencies{DB: repo, Drive: m}
	ctx := context.Background()

	var calls, lastTotal int
	opts := Options{FolderPath: "/media", Progress: func(done, total int) {
		calls++
		lastTotal = total
	}}

	report, err := Run(ctx, deps, opts)
	require.NoError(t, err)
	assert.Equal(t, "root-id", report.FolderID)
	assert.Equal(t, 3, report.FilesFound)
	assert.Equal(t, 3, report.FilesSynced)
	assert.NotEmpty(t, report.SyncID)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, lastTotal)

	_, err = Run(ctx, deps, Options{FolderPath: "/media"})
	require.NoError(t, err)

	_, total, err := repo.ListFiles(ctx, models.FileListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "re-sync must not duplicate files")

	status, err := repo.GetSyncStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.InProgress)
	assert.Equal(t, 3, status.TotalFilesSynced)
	assert.NotNil(t, status.LastSyncTime)
}

func TestRun_PerFileFailure(t *testing.T) {
	repo := setupTestRepo(t)
	m := new(MockDrive)
	m.On("ResolveFolder", mock.Anything, "").Return("root-id", nil)
	m.On("ListChildren", mock.Anything, "root-id", "").Return(&drive.Page{
		Items: []drive.Item{
			{ID: "ok", Name: "good.txt", MimeType: "text/plain"},
			{ID: "bad", Name: "", MimeType: "text/plain"},
		},
	}, nil)

	report, err := Run(context.Background(), Dependencies{DB: repo, Drive: m}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesSynced)
	assert.Equal(t, 1, report.FilesFailed)

	status, err := repo.GetSyncStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalFilesSynced)
}

func TestRun_DatabaseErrorSkipsFile(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	m := new(MockDrive)
	m.On("ResolveFolder", mock.Anything, "").Return("root-id", nil)
	m.On("ListChildren", mock.Anything, "root-id", "").Return(&drive.Page{
		Items: []drive.Item{
			{ID: "a", Name: "a.txt", MimeType: "text/plain"},
			// Violates the file_name length check inside the transaction.
			{ID: "long", Name: strings.Repeat("n", 600), MimeType: "text/plain"},
			{ID: "b", Name: "b.txt", MimeType: "text/plain"},
		},
	}, nil)

	report, err := Run(ctx, Dependencies{DB: repo, Drive: m}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.FilesSynced)
	assert.Equal(t, 1, report.FilesFailed)

	files, total, err := repo.ListFiles(ctx, models.FileListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	ids := []string{files[0].FileID, files[1].FileID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	status, err := repo.GetSyncStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.InProgress)
	assert.Equal(t, 2, status.TotalFilesSynced)
}

func TestRun_FailureReleasesFlag(t *testing.T) {
	repo := setupTestRepo(t)
	m := new(MockDrive)
	m.On("ResolveFolder", mock.Anything, "/missing").Return("", drive.ErrFolderNotFound)

	_, err := Run(context.Background(), Dependencies{DB: repo, Drive: m}, Options{FolderPath: "/missing"})
	assert.ErrorIs(t, err, drive.ErrFolderNotFound)

	status, err := repo.GetSyncStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.InProgress)
	assert.Nil(t, status.LastSyncTime, "failed run records nothing")
}

func TestRun_AlreadyInProgress(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	ok, err := repo.AcquireSyncFlag(ctx, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	m := new(MockDrive)
	_, err = Run(ctx, Dependencies{DB: repo, Drive: m}, Options{})
	assert.ErrorIs(t, err, ErrSyncInProgress)
	m.AssertNotCalled(t, "ResolveFolder", mock.Anything, mock.Anything)

	status, err := repo.GetSyncStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.InProgress, "the holder's flag is left alone")
}

func TestRun_FlipsNotFoundCIDs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.MarkCIDNotFound(ctx, "CID002", time.Now()))

	m := new(MockDrive)
	m.On("ResolveFolder", mock.Anything, "").Return("root-id", nil)
	mockTree(m)

	report, err := Run(ctx, Dependencies{DB: repo, Drive: m}, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.CIDsFlipped)

	rec, err := repo.GetCID(ctx, "CID002")
	require.NoError(t, err)
	assert.Equal(t, models.CIDStatusFound, rec.Status)
	require.NotNil(t, rec.FileID)
	assert.Equal(t, "f3", *rec.FileID)
}

func TestTryAcquire_ThenRunAcquired(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, TryAcquire(ctx, repo))
	assert.ErrorIs(t, TryAcquire(ctx, repo), ErrSyncInProgress)

	m := new(MockDrive)
	m.On("ResolveFolder", mock.Anything, "").Return("root-id", nil)
	mockTree(m)

	report, err := RunAcquired(ctx, Dependencies{DB: repo, Drive: m}, Options{SyncID: "fixed-id"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", report.SyncID)

	require.NoError(t, TryAcquire(ctx, repo), "flag released after the run")
}
