// filepath: internal/services/sync_service_test.go
package services

import (
	"cidcheck/internal/config"
	"cidcheck/internal/drive"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDrive struct {
	mock.Mock
}

func (m *mockDrive) ResolveFolder(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *mockDrive) ListChildren(ctx context.Context, folderID, pageToken string) (*drive.Page, error) {
	args := m.Called(ctx, folderID, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*drive.Page), args.Error(1)
}

func newMockDrive() *mockDrive {
	m := new(mockDrive)
	m.On("ResolveFolder", mock.Anything, "/incoming").Return("folder-1", nil)
	m.On("ListChildren", mock.Anything, "folder-1", "").Return(&drive.Page{
		Items: []drive.Item{{ID: "f1", Name: "Q7_report.pdf", MimeType: "application/pdf"}},
	}, nil)
	return m
}

func syncTestConfig() *config.Config {
	cfg := &config.Config{Drive: config.DriveConfig{TargetFolderPath: "/incoming"}}
	_ = cfg.ParseAndValidate()
	return cfg
}

func TestSyncService_TriggerSync(t *testing.T) {
	repo := setupIntegrationTest(t)
	auditor := new(mockAuditor)
	auditor.On("Log", mock.Anything, "sync.trigger", "10.0.0.9", "drive:/incoming", mock.Anything).Return()

	svc := NewSyncService(repo, newMockDrive(), auditor, syncTestConfig())
	defer svc.Stop()
	ctx := context.Background()

	accepted, err := svc.TriggerSync(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.NotEmpty(t, accepted.SyncID)

	assert.Eventually(t, func() bool {
		status, err := svc.GetStatus(ctx)
		return err == nil && !status.InProgress && status.LastSyncTime != nil
	}, 5*time.Second, 20*time.Millisecond)

	status, err := svc.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalFilesSynced)
	auditor.AssertExpectations(t)
}

func TestSyncService_TriggerWhileRunning(t *testing.T) {
	repo := setupIntegrationTest(t)
	svc := NewSyncService(repo, newMockDrive(), nil, syncTestConfig())
	defer svc.Stop()
	ctx := context.Background()

	ok, err := repo.AcquireSyncFlag(ctx, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.TriggerSync(ctx, "")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.RunSync(ctx, nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSyncService_RunSync(t *testing.T) {
	repo := setupIntegrationTest(t)
	svc := NewSyncService(repo, newMockDrive(), nil, syncTestConfig())
	defer svc.Stop()

	var progressed int
	report, err := svc.RunSync(context.Background(), func(done, total int) { progressed = done })
	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesSynced)
	assert.Equal(t, "folder-1", report.FolderID)
	assert.Equal(t, 1, progressed)
}

func TestSyncService_NoDrive(t *testing.T) {
	repo := setupIntegrationTest(t)
	svc := NewSyncService(repo, nil, nil, syncTestConfig())
	svc.Start()
	defer svc.Stop()

	_, err := svc.TriggerSync(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.RunSync(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}
