// filepath: internal/repository/cid_repo.go
package repository

import (
	"cidcheck/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// MarkCIDFound records cid as found in fileID. An existing first_found_time is kept.
func (s *Repository) MarkCIDFound(ctx context.Context, cid, fileID string, now time.Time) error {
	query, args, err := s.Builder.Insert("cids").
		Columns("cid", "file_id", "status", "first_found_time", "last_checked_time", "created_time").
		Values(cid, fileID, models.CIDStatusFound, now.UTC(), now.UTC(), now.UTC()).
		Suffix(`ON CONFLICT (cid) DO UPDATE SET
			file_id = excluded.file_id,
			status = excluded.status,
			first_found_time = COALESCE(cids.first_found_time, excluded.first_found_time),
			last_checked_time = excluded.last_checked_time`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cid upsert: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark cid %s found: %w", cid, err)
	}
	return nil
}

// MarkCIDNotFound records cid as not found and clears its file association.
func (s *Repository) MarkCIDNotFound(ctx context.Context, cid string, now time.Time) error {
	query, args, err := s.Builder.Insert("cids").
		Columns("cid", "file_id", "status", "first_found_time", "last_checked_time", "created_time").
		Values(cid, nil, models.CIDStatusNotFound, nil, now.UTC(), now.UTC()).
		Suffix(`ON CONFLICT (cid) DO UPDATE SET
			file_id = NULL,
			status = excluded.status,
			last_checked_time = excluded.last_checked_time`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cid upsert: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark cid %s not found: %w", cid, err)
	}
	return nil
}

// GetCID returns the stored record for cid or ErrCIDNotFound.
func (s *Repository) GetCID(ctx context.Context, cid string) (*models.CIDRecord, error) {
	query, args, err := s.Builder.Select(cidColumns...).From("cids").Where(squirrel.Eq{"cid": cid}).ToSql()
	if err != nil {
		return nil, err
	}
	rec, err := scanCID(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCIDNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cid %s: %w", cid, err)
	}
	return &rec, nil
}

// RecheckNotFoundCIDs flips every non-found CID that now matches a file name
// to found, pointing it at the first matching file. It returns the number flipped.
func (s *Repository) RecheckNotFoundCIDs(ctx context.Context, now time.Time) (int64, error) {
	match := containsExpr(s.Driver, "f.file_name", "cids.cid")
	query, args, err := s.Builder.Update("cids").
		Set("status", models.CIDStatusFound).
		Set("file_id", squirrel.Expr("(SELECT f.file_id FROM files f WHERE "+match+" ORDER BY f.id LIMIT 1)")).
		Set("first_found_time", squirrel.Expr("COALESCE(first_found_time, ?)", now.UTC())).
		Set("last_checked_time", now.UTC()).
		Where(squirrel.NotEq{"status": models.CIDStatusFound}).
		Where(squirrel.Expr("EXISTS (SELECT 1 FROM files f WHERE " + match + ")")).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build recheck query: %w", err)
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to recheck cids: %w", err)
	}
	return res.RowsAffected()
}

// CountCIDs returns the total, found and not found CID counts.
func (s *Repository) CountCIDs(ctx context.Context) (total, found, notFound int, err error) {
	query, args, err := s.Builder.Select("COUNT(*)").
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)", models.CIDStatusFound)).
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)", models.CIDStatusNotFound)).
		From("cids").
		ToSql()
	if err != nil {
		return 0, 0, 0, err
	}
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&total, &found, &notFound); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count cids: %w", err)
	}
	return total, found, notFound, nil
}
