// filepath: internal/repository/dbtx.go
package repository

import (
	"cidcheck/internal/models"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

const fileSavepoint = "file_upsert"

// Tx is a wrapper around *sql.Tx that provides transactional database operations.
type Tx struct {
	*sql.Tx
	builder squirrel.StatementBuilderType
}

// UpsertFileInTx inserts a file or updates it in place when its Drive id is already known.
// Each call runs under its own savepoint, so a failing file leaves the
// surrounding transaction usable (PostgreSQL aborts the whole transaction otherwise).
func (tx *Tx) UpsertFileInTx(ctx context.Context, file models.FileRecord, now time.Time) error {
	if file.ID == "" || file.Name == "" {
		return fmt.Errorf("%w: id=%q name=%q", ErrInvalidFile, file.ID, file.Name)
	}
	path := file.Path
	if path == "" {
		path = file.Name
	}

	var modified interface{}
	if !file.ModifiedTime.IsZero() {
		modified = file.ModifiedTime.UTC()
	}
	var size interface{}
	if file.Size != nil {
		size = *file.Size
	}

	query, args, err := tx.builder.Insert("files").
		Columns("file_id", "file_name", "file_path", "file_size", "mime_type", "modified_time", "created_time", "updated_time").
		Values(file.ID, file.Name, path, size, file.MimeType, modified, now.UTC(), now.UTC()).
		Suffix(`ON CONFLICT (file_id) DO UPDATE SET
			file_name = excluded.file_name,
			file_path = excluded.file_path,
			file_size = excluded.file_size,
			mime_type = excluded.mime_type,
			modified_time = excluded.modified_time,
			updated_time = excluded.updated_time`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+fileSavepoint); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+fileSavepoint); rbErr != nil {
			return fmt.Errorf("failed to upsert file %s: %v (rollback to savepoint failed: %w)", file.ID, err, rbErr)
		}
		// The savepoint stays on the stack after ROLLBACK TO; release it.
		if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+fileSavepoint); relErr != nil {
			return fmt.Errorf("failed to release savepoint: %w", relErr)
		}
		return fmt.Errorf("failed to upsert file %s: %w", file.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+fileSavepoint); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}

// SetConfigValueInTx writes a system_config key within a transaction.
func (tx *Tx) SetConfigValueInTx(ctx context.Context, key string, value *string, now time.Time) error {
	query, args, err := configUpsert(tx.builder, key, value, now)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// RecordSyncResultInTx stores the last sync time and the synced file count.
func (tx *Tx) RecordSyncResultInTx(ctx context.Context, synced int, at time.Time) error {
	ts := at.UTC().Format(time.RFC3339Nano)
	if err := tx.SetConfigValueInTx(ctx, models.ConfigLastSyncTime, &ts, at); err != nil {
		return fmt.Errorf("failed to record last sync time: %w", err)
	}
	count := fmt.Sprintf("%d", synced)
	if err := tx.SetConfigValueInTx(ctx, models.ConfigTotalFilesSynced, &count, at); err != nil {
		return fmt.Errorf("failed to record synced count: %w", err)
	}
	return nil
}

func configUpsert(builder squirrel.StatementBuilderType, key string, value *string, now time.Time) (string, []interface{}, error) {
	var v interface{}
	if value != nil {
		v = *value
	}
	query, args, err := builder.Insert("system_config").
		Columns("config_key", "config_value", "created_time", "updated_time").
		Values(key, v, now.UTC(), now.UTC()).
		Suffix("ON CONFLICT (config_key) DO UPDATE SET config_value = excluded.config_value, updated_time = excluded.updated_time").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build config upsert: %w", err)
	}
	return query, args, nil
}
