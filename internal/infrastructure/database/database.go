package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Database configuration constants.
const (
	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the database file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second
)

// DB wraps a sql.DB connection for the Energy Metrics store.
// It provides migration support, health checks, and proper lifecycle management.
type DB struct {
	*sql.DB
	path string
}

// Config contains database configuration options.
// These map to the database section of config.yaml.
type Config struct {
	// Path is the filesystem path to the SQLite database file.
	// The directory will be created if it doesn't exist.
	Path string

	// WALMode enables Write-Ahead Logging for better concurrent access.
	// Recommended: true (allows concurrent reads during writes).
	WALMode bool

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	// Bounds the suspension time of persist operations under contention.
	BusyTimeout int
}

// Open creates a new database connection with the specified configuration.
//
// It performs the following setup:
//  1. Creates the database directory if it doesn't exist
//  2. Opens the database file (creates if not present)
//  3. Configures WAL mode and busy timeout
//  4. Sets appropriate file permissions (0600)
//  5. Verifies the connection with a ping
//
// Parameters:
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected database wrapper
//   - error: If connection or configuration fails
func Open(cfg Config) (*DB, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Build connection string with pragmas
	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)

	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports a single writer; the ingestion path is the only one.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{
		DB:   sqlDB,
		path: cfg.Path,
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Ignore error - file might not exist yet on first run, will be set after first write
	_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck // Intentional: first run creates file later

	return db, nil
}

// Close closes the database connection gracefully.
// It should be called when the application shuts down.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the database file.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck verifies the database is accessible and functioning.
// It performs a simple query to ensure the connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
