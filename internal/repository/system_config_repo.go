// filepath: internal/repository/system_config_repo.go
package repository

import (
	"cidcheck/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
)

const (
	flagTrue  = "true"
	flagFalse = "false"
)

// GetConfigValue reads a system_config key. A missing key or NULL value yields nil.
func (s *Repository) GetConfigValue(ctx context.Context, key string) (*string, error) {
	query, args, err := s.Builder.Select("config_value").From("system_config").
		Where(squirrel.Eq{"config_key": key}).ToSql()
	if err != nil {
		return nil, err
	}
	var v sql.NullString
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", key, err)
	}
	if !v.Valid {
		return nil, nil
	}
	return &v.String, nil
}

// SetConfigValue writes a system_config key, creating it when missing.
func (s *Repository) SetConfigValue(ctx context.Context, key string, value *string, now time.Time) error {
	query, args, err := configUpsert(s.Builder, key, value, now)
	if err != nil {
		return err
	}
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write config %s: %w", key, err)
	}
	return nil
}

// GetSyncStatus reads the sync related system_config keys.
func (s *Repository) GetSyncStatus(ctx context.Context) (*models.SyncStatus, error) {
	status := &models.SyncStatus{}

	inProgress, err := s.GetConfigValue(ctx, models.ConfigSyncInProgress)
	if err != nil {
		return nil, err
	}
	status.InProgress = inProgress != nil && *inProgress == flagTrue

	last, err := s.GetConfigValue(ctx, models.ConfigLastSyncTime)
	if err != nil {
		return nil, err
	}
	if last != nil && *last != "" {
		t, err := time.Parse(time.RFC3339Nano, *last)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", models.ConfigLastSyncTime, *last, err)
		}
		status.LastSyncTime = &t
	}

	count, err := s.GetConfigValue(ctx, models.ConfigTotalFilesSynced)
	if err != nil {
		return nil, err
	}
	if count != nil && *count != "" {
		n, err := strconv.Atoi(*count)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", models.ConfigTotalFilesSynced, *count, err)
		}
		status.TotalFilesSynced = n
	}
	return status, nil
}

// AcquireSyncFlag sets sync_in_progress to true if it is not already set.
// It reports false when another sync holds the flag.
func (s *Repository) AcquireSyncFlag(ctx context.Context, now time.Time) (bool, error) {
	query, args, err := s.Builder.Update("system_config").
		Set("config_value", flagTrue).
		Set("updated_time", now.UTC()).
		Where(squirrel.Eq{"config_key": models.ConfigSyncInProgress}).
		Where(squirrel.Or{
			squirrel.Eq{"config_value": nil},
			squirrel.NotEq{"config_value": flagTrue},
		}).
		ToSql()
	if err != nil {
		return false, err
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}

	// The seeded row may have been removed by hand; recreate it already held.
	query, args, err = s.Builder.Insert("system_config").
		Columns("config_key", "config_value", "created_time", "updated_time").
		Values(models.ConfigSyncInProgress, flagTrue, now.UTC(), now.UTC()).
		Suffix("ON CONFLICT (config_key) DO NOTHING").
		ToSql()
	if err != nil {
		return false, err
	}
	res, err = s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync flag: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseSyncFlag resets sync_in_progress to false.
func (s *Repository) ReleaseSyncFlag(ctx context.Context, now time.Time) error {
	v := flagFalse
	return s.SetConfigValue(ctx, models.ConfigSyncInProgress, &v, now)
}
