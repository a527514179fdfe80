// filepath: internal/config/config_test.go
package config

import (
	"cidcheck/internal/shared"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ParseAndValidate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.ParseAndValidate()
		assert.NoError(t, err)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, DefaultMaxOpenConns, cfg.Database.MaxOpenConns)
		assert.Equal(t, int64(DefaultPageSize), cfg.Drive.PageSize)
		assert.Equal(t, DefaultMaxBatch, cfg.CID.MaxBatch)
		assert.Equal(t, time.Duration(0), cfg.SyncIntervalDuration)
	})

	t.Run("Driver aliases", func(t *testing.T) {
		cfg := &Config{Database: DatabaseConfig{Driver: "PGX", DSN: "postgres://localhost/cids"}}
		assert.NoError(t, cfg.ParseAndValidate())
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)

		cfg = &Config{Database: DatabaseConfig{Driver: "sqlite"}}
		assert.NoError(t, cfg.ParseAndValidate())
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	})

	t.Run("Postgres requires DSN", func(t *testing.T) {
		cfg := &Config{Database: DatabaseConfig{Driver: "postgres"}}
		err := cfg.ParseAndValidate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database.dsn")
	})

	t.Run("Unknown driver", func(t *testing.T) {
		cfg := &Config{Database: DatabaseConfig{Driver: "oracle"}}
		err := cfg.ParseAndValidate()
		assert.ErrorIs(t, err, shared.ErrUnknownDriver)
	})

	t.Run("Page size is clamped", func(t *testing.T) {
		cfg := &Config{Drive: DriveConfig{PageSize: 5000, MaxDepth: -3}}
		assert.NoError(t, cfg.ParseAndValidate())
		assert.Equal(t, int64(MaxDrivePageSize), cfg.Drive.PageSize)
		assert.Equal(t, 0, cfg.Drive.MaxDepth)
	})

	t.Run("Sync interval", func(t *testing.T) {
		cfg := &Config{Sync: SyncConfig{Interval: "6h"}}
		assert.NoError(t, cfg.ParseAndValidate())
		assert.Equal(t, 6*time.Hour, cfg.SyncIntervalDuration)

		cfg = &Config{Sync: SyncConfig{Interval: "sometimes"}}
		err := cfg.ParseAndValidate()
		assert.ErrorIs(t, err, shared.ErrInvalidInterval)
	})
}

func TestDriveConfigured(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.DriveConfigured())

	cfg.Drive = DriveConfig{ClientID: "id", ClientSecret: "secret", RefreshToken: "token"}
	assert.True(t, cfg.DriveConfigured())
}

func TestLoadAndSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := []byte(`
[server]
port = 3000

[database]
path = "cids.db"

[drive]
shared_drive_id = "0AAbc"
target_folder_path = "/media/incoming"

[sync]
interval = "1d"
`)
	assert.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "cids.db", cfg.Database.Path)
	assert.Equal(t, "/media/incoming", cfg.Drive.TargetFolderPath)
	assert.Equal(t, "1d", cfg.Sync.Interval)

	cfg.Server.Port = 3001
	assert.NoError(t, SaveConfig(path, cfg))

	reloaded, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 3001, reloaded.Server.Port)
	assert.Equal(t, "0AAbc", reloaded.Drive.SharedDriveID)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, os.IsNotExist(err))
}
