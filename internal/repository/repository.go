// filepath: internal/repository/repository.go
package repository

import (
	"cidcheck/internal/config"
	"cidcheck/internal/db/migrations"
	"cidcheck/internal/logging"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registered as "pgx"
	_ "github.com/mattn/go-sqlite3"    // SQLite driver, registered as "sqlite3"
	"github.com/pressly/goose/v3"
)

// Repository errors.
var (
	ErrCIDNotFound    = errors.New("cid not found")
	ErrInvalidFile    = errors.New("invalid file record")
	ErrSchemaOutdated = errors.New("database schema is outdated")
)

// Repository is the single access point to the SQL database.
// Every query is built with squirrel so the same code serves SQLite and PostgreSQL.
type Repository struct {
	DB      *sql.DB
	Builder squirrel.StatementBuilderType
	Driver  string
}

// NewRepository opens the configured database and prepares the connection pool.
// It does not touch the schema; see EnsureSchemaBootstrapped and Migrate.
func NewRepository(cfg *config.Config) (*Repository, error) {
	driver := cfg.Database.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case config.DriverSQLite:
		path := cfg.Database.Path
		if path == "" {
			path = "cidcheck.db"
		}
		// WAL lets readers continue while a sync transaction writes.
		dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_txlock=immediate", path)
		db, err = sql.Open("sqlite3", dsn)
	case config.DriverPostgres:
		db, err = sql.Open("pgx", cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxConns := cfg.Database.MaxOpenConns
	if maxConns <= 0 {
		maxConns = config.DefaultMaxOpenConns
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	if driver == config.DriverPostgres {
		builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}

	logging.Log.Debugf("Opened %s database (max %d connections)", driver, maxConns)

	return &Repository{
		DB:      db,
		Builder: builder,
		Driver:  driver,
	}, nil
}

// Close releases the connection pool.
func (s *Repository) Close() error {
	return s.DB.Close()
}

// Ping checks that the database is reachable.
func (s *Repository) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// BeginTx starts a transaction wrapped in a Tx.
func (s *Repository) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, builder: s.Builder}, nil
}

// containsExpr returns a case-sensitive "haystack contains needle" SQL predicate.
// SQLite's LIKE ignores ASCII case, so instr/strpos are used instead.
func containsExpr(driver, haystack, needle string) string {
	if driver == config.DriverPostgres {
		return fmt.Sprintf("strpos(%s, %s) > 0", haystack, needle)
	}
	return fmt.Sprintf("instr(%s, %s) > 0", haystack, needle)
}

// likeOperator returns the case-insensitive LIKE operator for the driver.
func likeOperator(driver string) string {
	if driver == config.DriverPostgres {
		return "ILIKE"
	}
	return "LIKE"
}

// --- Schema management ---

func (s *Repository) gooseDialect() string {
	if s.Driver == config.DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func (s *Repository) setupGoose() (string, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(s.gooseDialect()); err != nil {
		return "", fmt.Errorf("failed to set dialect: %w", err)
	}
	return migrations.Dir(s.Driver), nil
}

// Migrate runs a goose command ("up", "down" or "status") against the database.
func (s *Repository) Migrate(command string) error {
	dir, err := s.setupGoose()
	if err != nil {
		return err
	}

	logging.Log.Infof("Running migration command: %s", command)

	var gooseErr error
	switch command {
	case "up":
		gooseErr = goose.Up(s.DB, dir)
	case "down":
		gooseErr = goose.Down(s.DB, dir)
	case "status":
		gooseErr = goose.Status(s.DB, dir)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
	if gooseErr != nil {
		return fmt.Errorf("migration failed: %w", gooseErr)
	}
	return nil
}

// EnsureSchemaBootstrapped migrates a brand-new database to the latest version.
// Databases that already carry a goose version table are left alone so that
// upgrades stay an explicit "migrate up".
func (s *Repository) EnsureSchemaBootstrapped() error {
	exists, err := s.versionTableExists()
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists {
		return nil
	}

	logging.Log.Info("Empty database detected, applying all migrations.")
	return s.Migrate("up")
}

// ValidateSchema fails if the database is behind the embedded migrations.
func (s *Repository) ValidateSchema() error {
	dir, err := s.setupGoose()
	if err != nil {
		return err
	}

	current, err := goose.GetDBVersion(s.DB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	known, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	last, err := known.Last()
	if err != nil {
		return fmt.Errorf("failed to determine latest migration: %w", err)
	}

	if current < last.Version {
		return fmt.Errorf("%w (current: %d, latest: %d); run 'cidcheck migrate up'", ErrSchemaOutdated, current, last.Version)
	}
	return nil
}

func (s *Repository) versionTableExists() (bool, error) {
	var query string
	if s.Driver == config.DriverPostgres {
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'goose_db_version'"
	} else {
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='goose_db_version'"
	}

	var count int
	if err := s.DB.QueryRow(query).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
