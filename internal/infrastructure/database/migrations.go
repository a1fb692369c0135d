package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

// MigrationsFS should be set by the migrations package to embed migration
// files. This allows the schema to be compiled into the binary.
//
// Usage:
//
//	//go:embed *.sql
//	var migrationsFS embed.FS
//
//	func init() {
//	    database.MigrationsFS = migrationsFS
//	}
var MigrationsFS embed.FS

// MigrationsDir is the directory within MigrationsFS containing migration
// files. Set to "." if files are at the root of the embedded filesystem.
var MigrationsDir = "."

// Migration represents a single schema migration.
//
// Migration files are named NNN_description.sql (e.g. 001_create_metrics.sql)
// and applied in filename order.
type Migration struct {
	// Version is the numeric prefix of the filename (e.g. "001").
	Version string

	// Name is the human-readable part of the filename.
	Name string

	// SQL contains the statements to apply this migration.
	SQL string
}

// Migrate applies all pending migrations to the database.
//
// Each migration runs in its own transaction. If migration N fails, earlier
// migrations remain committed and later ones are not attempted; re-running
// Migrate() after fixing the issue continues from N.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: If any migration fails (that migration is rolled back)
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	if len(migrations) == 0 {
		return nil
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("getting applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist.
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

// appliedVersions returns the set of migration versions already applied.
func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scanning migration row: %w", err)
		}
		applied[version] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating migrations: %w", err)
	}
	return applied, nil
}

// applyMigration applies a single migration within a transaction.
func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("executing SQL: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		m.Version,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}

// loadMigrations loads all migration files from the embedded filesystem,
// sorted by version.
func loadMigrations() ([]Migration, error) {
	var empty embed.FS
	if MigrationsFS == empty {
		return nil, nil // No embedded migrations
	}

	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, name, ok := parseMigrationFilename(entry.Name())
		if !ok {
			return nil, fmt.Errorf("invalid migration filename: %s (want NNN_description.sql)", entry.Name())
		}

		path := entry.Name()
		if MigrationsDir != "." {
			path = MigrationsDir + "/" + entry.Name()
		}
		data, err := fs.ReadFile(MigrationsFS, path)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			SQL:     string(data),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// parseMigrationFilename splits "NNN_description.sql" into version and name.
func parseMigrationFilename(filename string) (version, name string, ok bool) {
	base := strings.TrimSuffix(filename, ".sql")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
