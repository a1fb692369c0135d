// Package database provides SQLite connection management for the Energy
// Metrics store.
//
// This package manages:
//   - Opening the database with WAL mode and busy-timeout pragmas
//   - Embedded schema migrations with schema_migrations bookkeeping
//   - Health checks and lifecycle (Close)
//
// The database file is exclusively owned by the metric store; no other
// component touches it directly.
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     cfg.Database.WALMode,
//	    BusyTimeout: cfg.Database.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
