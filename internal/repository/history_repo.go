// filepath: internal/repository/history_repo.go
package repository

import (
	"cidcheck/internal/models"
	"context"
	"database/sql"
	"fmt"
)

// InsertQueryHistory appends one batch check to the history log and returns its id.
func (s *Repository) InsertQueryHistory(ctx context.Context, h models.QueryHistory) (int64, error) {
	var ip interface{}
	if h.IPAddress != "" {
		ip = h.IPAddress
	}
	query, args, err := s.Builder.Insert("query_history").
		Columns("query_text", "total_cids", "found_cids", "not_found_cids", "query_time", "ip_address").
		Values(h.QueryText, h.TotalCIDs, h.FoundCIDs, h.NotFoundCIDs, h.QueryTime.UTC(), ip).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build history insert: %w", err)
	}

	var id int64
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert query history: %w", err)
	}
	return id, nil
}

// ListQueryHistory returns the latest limit history rows, newest first.
func (s *Repository) ListQueryHistory(ctx context.Context, limit int) ([]models.QueryHistory, error) {
	query, args, err := s.Builder.
		Select("id", "query_text", "total_cids", "found_cids", "not_found_cids", "query_time", "ip_address").
		From("query_history").
		OrderBy("query_time DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list query history: %w", err)
	}
	defer rows.Close()

	history := make([]models.QueryHistory, 0)
	for rows.Next() {
		var (
			h  models.QueryHistory
			ip sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.QueryText, &h.TotalCIDs, &h.FoundCIDs, &h.NotFoundCIDs, &h.QueryTime, &ip); err != nil {
			return nil, err
		}
		h.IPAddress = ip.String
		history = append(history, h)
	}
	return history, rows.Err()
}
