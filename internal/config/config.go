// filepath: internal/config/config.go
package config

import (
	"cidcheck/internal/shared"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	DefaultMaxOpenConns = 10
	DefaultPageSize     = 100
	MaxDrivePageSize    = 1000
	DefaultMaxDepth     = 64
	DefaultMaxBatch     = 1000
)

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Drive    DriveConfig    `toml:"drive"`
	Sync     SyncConfig     `toml:"sync"`
	CID      CIDConfig      `toml:"cid"`

	SyncIntervalDuration time.Duration `toml:"-"` // Runtime computed value
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig holds the database configuration.
// Path is used by the sqlite3 driver, DSN by postgres.
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	DSN          string `toml:"dsn"`
	MaxOpenConns int    `toml:"max_open_conns"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// DriveConfig holds the Google Drive credentials and the folder to mirror.
type DriveConfig struct {
	ClientID         string `toml:"client_id"`
	ClientSecret     string `toml:"client_secret"`
	RefreshToken     string `toml:"refresh_token"`
	RedirectURL      string `toml:"redirect_url"`
	SharedDriveID    string `toml:"shared_drive_id"`
	TargetFolderPath string `toml:"target_folder_path"`
	PageSize         int64  `toml:"page_size"`
	MaxDepth         int    `toml:"max_depth"` // negative disables the limit, 0 selects the default
}

// SyncConfig controls automatic synchronization.
type SyncConfig struct {
	Interval  string `toml:"interval"` // e.g. "6h", "1d"; "0" or empty disables
	OnStartup bool   `toml:"on_startup"`
}

// CIDConfig holds limits for CID batch checks.
type CIDConfig struct {
	MaxBatch int `toml:"max_batch"`
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trying to save the config: %w", shared.ErrorCreateFile)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("trying to save the config: %w", shared.ErrorEncodeFile)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values.
// It sets defaults for limits that are missing or out of range.
func (c *Config) ParseAndValidate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "", "sqlite", DriverSQLite:
		c.Database.Driver = DriverSQLite
	case "postgresql", "pgx", DriverPostgres:
		c.Database.Driver = DriverPostgres
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("%w: %s", shared.ErrUnknownDriver, c.Database.Driver)
	}

	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = DefaultMaxOpenConns
	}

	if c.Drive.PageSize <= 0 {
		c.Drive.PageSize = DefaultPageSize
	}
	if c.Drive.PageSize > MaxDrivePageSize {
		c.Drive.PageSize = MaxDrivePageSize
	}
	if c.Drive.MaxDepth < 0 {
		c.Drive.MaxDepth = 0
	}

	if c.CID.MaxBatch <= 0 {
		c.CID.MaxBatch = DefaultMaxBatch
	}

	interval, err := shared.ParseDuration(c.Sync.Interval)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInterval, err)
	}
	c.SyncIntervalDuration = interval

	return nil
}

// DriveConfigured reports whether enough credentials are present to talk to Drive.
func (c *Config) DriveConfigured() bool {
	return c.Drive.ClientID != "" && c.Drive.ClientSecret != "" && c.Drive.RefreshToken != ""
}
