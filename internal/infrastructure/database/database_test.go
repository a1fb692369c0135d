package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data", "test.db")

	db, err := Open(Config{
		Path:        dbPath,
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestOpen_WithoutWAL(t *testing.T) {
	tmpDir := t.TempDir()

	db, err := Open(Config{
		Path:        filepath.Join(tmpDir, "test.db"),
		WALMode:     false,
		BusyTimeout: 1,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose_NilSafe(t *testing.T) {
	db := &DB{}
	if err := db.Close(); err != nil {
		t.Errorf("Close() on empty DB error = %v", err)
	}
}
