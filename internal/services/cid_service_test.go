// filepath: internal/services/cid_service_test.go
package services

import (
	"cidcheck/internal/models"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	m.Called(ctx, action, actor, resource, details)
}

func TestNormalizeCIDs(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, normalizeCIDs([]string{" A ", "", "B", "A", "\t"}))
	assert.Empty(t, normalizeCIDs([]string{" ", "\n"}))
	assert.Empty(t, normalizeCIDs(nil))
}

func TestCheckCIDs_Validation(t *testing.T) {
	repo := setupIntegrationTest(t)
	svc := NewCIDService(repo, nil, 2)
	ctx := context.Background()

	testCases := []struct {
		name string
		cids []string
	}{
		{"Empty batch", []string{}},
		{"Whitespace only", []string{"  ", "\t", ""}},
		{"Too many", []string{"A", "B", "C"}},
		{"Too long", []string{strings.Repeat("x", MaxCIDLength+1)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CheckCIDs(ctx, tc.cids, "")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	var count int
	require.NoError(t, repo.DB.QueryRow("SELECT COUNT(*) FROM query_history").Scan(&count))
	assert.Equal(t, 0, count, "rejected batches are not logged")
}

func TestCheckCIDs_LengthCountsCharacters(t *testing.T) {
	repo := setupIntegrationTest(t)
	svc := NewCIDService(repo, nil, 10)
	ctx := context.Background()

	// 20 characters, 60 bytes.
	wide := strings.Repeat("番", 20)
	result, err := svc.CheckCIDs(ctx, []string{wide}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{wide}, result.NotFound)

	rec, err := svc.GetCID(ctx, wide)
	require.NoError(t, err)
	assert.Equal(t, models.CIDStatusNotFound, rec.Status)

	atLimit := strings.Repeat("é", MaxCIDLength)
	_, err = svc.CheckCIDs(ctx, []string{atLimit}, "")
	assert.NoError(t, err)

	_, err = svc.CheckCIDs(ctx, []string{atLimit + "é"}, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckCIDs(t *testing.T) {
	repo := setupIntegrationTest(t)
	seedFiles(t, repo,
		models.FileRecord{ID: "f1", Name: "ABC-001 scan.pdf", Path: "2024/ABC-001 scan.pdf"},
		models.FileRecord{ID: "f2", Name: "ABC-001 copy.pdf", Path: "2024/ABC-001 copy.pdf"},
		models.FileRecord{ID: "f3", Name: "abc-002.pdf", Path: "abc-002.pdf"},
	)

	auditor := new(mockAuditor)
	auditor.On("Log", mock.Anything, "cid.check", "10.1.1.1", "cids:3", mock.Anything).Return()

	svc := NewCIDService(repo, auditor, 100)
	first := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	result, err := svc.CheckCIDs(context.Background(), []string{"ABC-001", " ABC-002", "ZZZ", "ABC-001"}, "10.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.FoundCount)
	assert.Equal(t, 2, result.NotFoundCount)
	require.Len(t, result.Found, 1)
	assert.Equal(t, "ABC-001", result.Found[0].CID)
	require.Len(t, result.Found[0].Files, 2)
	assert.Equal(t, "f1", result.Found[0].Files[0].FileID)
	assert.Equal(t, []string{"ABC-002", "ZZZ"}, result.NotFound, "match is case-sensitive")
	auditor.AssertExpectations(t)

	rec, err := svc.GetCID(context.Background(), "ABC-001")
	require.NoError(t, err)
	require.NotNil(t, rec.FileID)
	assert.Equal(t, "f1", *rec.FileID)

	// Repeated check keeps the first found time.
	svc.now = func() time.Time { return first.Add(24 * time.Hour) }
	auditor.On("Log", mock.Anything, "cid.check", "", "cids:1", mock.Anything).Return()
	_, err = svc.CheckCIDs(context.Background(), []string{"ABC-001"}, "")
	require.NoError(t, err)

	rec, err = svc.GetCID(context.Background(), "ABC-001")
	require.NoError(t, err)
	require.NotNil(t, rec.FirstFoundTime)
	assert.True(t, first.Equal(*rec.FirstFoundTime))
	assert.True(t, first.Add(24*time.Hour).Equal(rec.LastCheckedTime))

	var queryText string
	require.NoError(t, repo.DB.QueryRow("SELECT query_text FROM query_history ORDER BY id LIMIT 1").Scan(&queryText))
	assert.Equal(t, "ABC-001, ABC-002,ZZZ,ABC-001", queryText, "raw input is logged")
}

func TestGetCID_Errors(t *testing.T) {
	repo := setupIntegrationTest(t)
	svc := NewCIDService(repo, nil, 10)

	_, err := svc.GetCID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetCID(context.Background(), " ")
	assert.ErrorIs(t, err, ErrValidation)
}
