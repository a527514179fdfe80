// filepath: internal/cli/root.go
package cli

import (
	"cidcheck/internal/config"
	"cidcheck/internal/logging"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.toml"

var (
	// Version info
	Version   = "dev"
	StartTime time.Time

	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flags
	cfgFile      string
	envFile      string
	host         string
	port         int
	logLevel     string
	dbDriver     string
	dbPath       string
	folderPath   string
	syncInterval string
	auditEnabled bool
)

// RootCmd represents the base command when called without any subcommands.
// It starts the HTTP server.
var RootCmd = &cobra.Command{
	Use:   "cidcheck",
	Short: "CID checker for a mirrored Google Drive folder",
	Long: `Mirrors the file listing of a Google Drive folder into a local database and
checks batches of CIDs against the synced file names through a REST API and web interface.`,
	SilenceUsage: true,
	// PersistentPreRunE loads the configuration before any command runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// frontendFS holds the embedded frontend assets.
var frontendFS fs.FS

// Execute runs the root command. It is called once by main.main().
func Execute(frontend fs.FS, version string) {
	frontendFS = frontend
	if version != "" {
		Version = version
	}
	StartTime = time.Now()

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config_path", defaultConfigPath, "Path to the base configuration file. (Env: CIDCHECK_CONFIG_PATH)")
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading CIDCHECK_* variables.")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: CIDCHECK_LOG_LEVEL)")
	RootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Database driver, sqlite3 or postgres. (Env: CIDCHECK_DATABASE_DRIVER)")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "Path of the SQLite database file. (Env: CIDCHECK_DATABASE_PATH)")
	RootCmd.PersistentFlags().StringVar(&folderPath, "folder", "", "Drive folder path to mirror, e.g. 'Scans/2024'. (Env: CIDCHECK_DRIVE_FOLDER)")

	// Server-specific flags
	RootCmd.Flags().StringVar(&host, "host", "", "Host interface for the HTTP server. (Env: CIDCHECK_HOST)")
	RootCmd.Flags().IntVar(&port, "port", 0, "Port for the HTTP server. (Env: CIDCHECK_PORT)")
	RootCmd.Flags().StringVar(&syncInterval, "sync-interval", "", "Automatic sync interval, e.g. '6h' or '1d'. '0' disables. (Env: CIDCHECK_SYNC_INTERVAL)")
	RootCmd.Flags().BoolVar(&auditEnabled, "audit-enabled", false, "Enable audit logging. (Env: CIDCHECK_AUDIT_ENABLED=true)")
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if envPath := os.Getenv("CIDCHECK_CONFIG_PATH"); envPath != "" && cfgFile == defaultConfigPath {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Create empty config if not found, rely on defaults/flags
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	applyOverrides(cfg, cmd)

	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logging.Init(cfg.Logging.Level)
	goose.SetLogger(logging.Log)

	return nil
}

func applyOverrides(c *config.Config, cmd *cobra.Command) {
	getEnv := os.Getenv

	// --- 1. Environment Variables ---
	if v := getEnv("CIDCHECK_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getEnv("CIDCHECK_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getEnv("CIDCHECK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getEnv("CIDCHECK_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.AuditEnabled = b
		}
	}
	if v := getEnv("CIDCHECK_DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := getEnv("CIDCHECK_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getEnv("CIDCHECK_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := getEnv("CIDCHECK_DRIVE_CLIENT_ID"); v != "" {
		c.Drive.ClientID = v
	}
	if v := getEnv("CIDCHECK_DRIVE_CLIENT_SECRET"); v != "" {
		c.Drive.ClientSecret = v
	}
	if v := getEnv("CIDCHECK_DRIVE_REFRESH_TOKEN"); v != "" {
		c.Drive.RefreshToken = v
	}
	if v := getEnv("CIDCHECK_DRIVE_SHARED_DRIVE_ID"); v != "" {
		c.Drive.SharedDriveID = v
	}
	if v := getEnv("CIDCHECK_DRIVE_FOLDER"); v != "" {
		c.Drive.TargetFolderPath = v
	}
	if v := getEnv("CIDCHECK_SYNC_INTERVAL"); v != "" {
		c.Sync.Interval = v
	}

	// --- 2. CLI Flags (Take precedence) ---
	if host != "" {
		c.Server.Host = host
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if dbDriver != "" {
		c.Database.Driver = dbDriver
	}
	if dbPath != "" {
		c.Database.Path = dbPath
	}
	if folderPath != "" {
		c.Drive.TargetFolderPath = folderPath
	}
	if syncInterval != "" {
		c.Sync.Interval = syncInterval
	}
	// Check if flag was explicitly set
	if f := cmd.Flags().Lookup("audit-enabled"); f != nil && f.Changed {
		c.Logging.AuditEnabled = auditEnabled
	}

	// --- 3. Defaults ---
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "cidcheck.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Drive.MaxDepth == 0 {
		c.Drive.MaxDepth = config.DefaultMaxDepth
	}
}
