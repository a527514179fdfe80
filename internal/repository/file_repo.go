// filepath: internal/repository/file_repo.go
package repository

import (
	"cidcheck/internal/logging"
	"cidcheck/internal/models"
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// ListFiles returns one page of mirrored files, newest modification first,
// together with the total number of rows matching the search.
func (s *Repository) ListFiles(ctx context.Context, q models.FileListQuery) ([]models.File, int, error) {
	var where squirrel.Sqlizer
	if q.Search != "" {
		op := likeOperator(s.Driver)
		pattern := likePattern(q.Search)
		where = squirrel.Or{
			squirrel.Expr(fmt.Sprintf(`file_name %s ? ESCAPE '\'`, op), pattern),
			squirrel.Expr(fmt.Sprintf(`file_path %s ? ESCAPE '\'`, op), pattern),
		}
	}

	countQ := s.Builder.Select("COUNT(*)").From("files")
	if where != nil {
		countQ = countQ.Where(where)
	}
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := s.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count files: %w", err)
	}

	if q.Limit < 1 {
		return nil, 0, fmt.Errorf("invalid page size %d", q.Limit)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	// Pages past the end are empty; this also keeps the offset from overflowing.
	if q.Page-1 >= (total+q.Limit-1)/q.Limit {
		return make([]models.File, 0), total, nil
	}
	offset := (q.Page - 1) * q.Limit
	listQ := s.Builder.Select(fileColumns...).From("files").
		OrderBy("modified_time IS NULL", "modified_time DESC", "id DESC").
		Limit(uint64(q.Limit)).
		Offset(uint64(offset))
	if where != nil {
		listQ = listQ.Where(where)
	}
	query, args, err := listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}
	logging.Log.Debugf("Generated SQL for ListFiles: %s", query)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := make([]models.File, 0, q.Limit)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// FindFilesContaining returns every file whose name contains cid (case-sensitive), by row id.
func (s *Repository) FindFilesContaining(ctx context.Context, cid string) ([]models.FileMatch, error) {
	query, args, err := s.Builder.Select("file_id", "file_name", "file_path").
		From("files").
		Where(squirrel.Expr(containsExpr(s.Driver, "file_name", "?"), cid)).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build match query: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to match files: %w", err)
	}
	defer rows.Close()

	matches := make([]models.FileMatch, 0)
	for rows.Next() {
		var m models.FileMatch
		if err := rows.Scan(&m.FileID, &m.FileName, &m.FilePath); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CountFiles returns the number of mirrored files and their summed size in bytes.
func (s *Repository) CountFiles(ctx context.Context) (int, int64, error) {
	query, args, err := s.Builder.Select("COUNT(*)", "COALESCE(SUM(file_size), 0)").From("files").ToSql()
	if err != nil {
		return 0, 0, err
	}
	var (
		count int
		size  int64
	)
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&count, &size); err != nil {
		return 0, 0, fmt.Errorf("failed to count files: %w", err)
	}
	return count, size, nil
}
