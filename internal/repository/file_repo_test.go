// filepath: internal/repository/file_repo_test.go
package repository

import (
	"cidcheck/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiles(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var files []models.FileRecord
	for i := 1; i <= 10; i++ {
		files = append(files, models.FileRecord{
			ID:           fmt.Sprintf("id-%02d", i),
			Name:         fmt.Sprintf("file_%02d.txt", i),
			Path:         fmt.Sprintf("docs/file_%02d.txt", i),
			ModifiedTime: base.Add(time.Duration(i) * time.Hour),
		})
	}
	seedFiles(t, repo, files...)

	t.Run("Second page by modified time desc", func(t *testing.T) {
		page, total, err := repo.ListFiles(ctx, models.FileListQuery{Page: 2, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 10, total)
		require.Len(t, page, 5)

		var names []string
		for _, f := range page {
			names = append(names, f.FileName)
		}
		assert.Equal(t, []string{"file_05.txt", "file_04.txt", "file_03.txt", "file_02.txt", "file_01.txt"}, names)
		require.NotNil(t, page[0].ModifiedTime)
		assert.True(t, base.Add(5*time.Hour).Equal(*page[0].ModifiedTime))
	})

	t.Run("Search is case-insensitive over name and path", func(t *testing.T) {
		page, total, err := repo.ListFiles(ctx, models.FileListQuery{Page: 1, Limit: 50, Search: "FILE_07"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, page, 1)
		assert.Equal(t, "id-07", page[0].FileID)

		_, total, err = repo.ListFiles(ctx, models.FileListQuery{Page: 1, Limit: 50, Search: "docs/"})
		require.NoError(t, err)
		assert.Equal(t, 10, total)
	})

	t.Run("Wildcards are literal", func(t *testing.T) {
		_, total, err := repo.ListFiles(ctx, models.FileListQuery{Page: 1, Limit: 50, Search: "%"})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("Page past the end", func(t *testing.T) {
		page, total, err := repo.ListFiles(ctx, models.FileListQuery{Page: 9, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 10, total)
		assert.Empty(t, page)
	})

	t.Run("Huge page does not wrap to the first page", func(t *testing.T) {
		page, total, err := repo.ListFiles(ctx, models.FileListQuery{Page: math.MaxInt, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 10, total)
		assert.Empty(t, page)
	})

	t.Run("Invalid page size", func(t *testing.T) {
		_, _, err := repo.ListFiles(ctx, models.FileListQuery{Page: 1, Limit: 0})
		assert.Error(t, err)
	})
}

func TestListFiles_NullModifiedTimeLast(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedFiles(t, repo,
		models.FileRecord{ID: "a", Name: "undated.txt"},
		models.FileRecord{ID: "b", Name: "dated.txt", ModifiedTime: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
	)

	page, _, err := repo.ListFiles(context.Background(), models.FileListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].FileID)
	assert.Nil(t, page[1].ModifiedTime)

	raw, err := json.Marshal(page[1])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"modified_time":null`)
	assert.Nil(t, page[1].FileSize)
}

func TestFindFilesContaining(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	seedFiles(t, repo,
		models.FileRecord{ID: "1", Name: "ABC123_scan.pdf", Path: "a/ABC123_scan.pdf"},
		models.FileRecord{ID: "2", Name: "abc123_lower.pdf", Path: "a/abc123_lower.pdf"},
		models.FileRecord{ID: "3", Name: "copy_ABC123.pdf", Path: "b/copy_ABC123.pdf"},
	)

	matches, err := repo.FindFilesContaining(ctx, "ABC123")
	require.NoError(t, err)
	require.Len(t, matches, 2, "match is case-sensitive")
	assert.Equal(t, "1", matches[0].FileID)
	assert.Equal(t, "3", matches[1].FileID)
	assert.Equal(t, "b/copy_ABC123.pdf", matches[1].FilePath)

	matches, err = repo.FindFilesContaining(ctx, "ZZZ")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCountFiles(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	count, size, err := repo.CountFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, int64(0), size)

	s1, s2 := int64(100), int64(250)
	seedFiles(t, repo,
		models.FileRecord{ID: "1", Name: "one", Size: &s1},
		models.FileRecord{ID: "2", Name: "two", Size: &s2},
		models.FileRecord{ID: "3", Name: "native doc"},
	)
	count, size, err = repo.CountFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, int64(350), size)
}
