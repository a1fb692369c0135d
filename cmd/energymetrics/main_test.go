package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("ENERGYMETRICS_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when the database path is
// left empty in config.
func TestRun_MissingDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
service:
  id: test-service

database:
  path: ""
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: error
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 8080
  timeouts:
    read: 30
    write: 60
    idle: 120

security:
  jwt:
    secret: "test-secret-key-at-least-32-characters-long"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("ENERGYMETRICS_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with empty database path")
	}
	if !strings.Contains(err.Error(), "database") {
		t.Errorf("error = %v, want database path complaint", err)
	}
}

// TestGetConfigPath verifies the environment override.
func TestGetConfigPath(t *testing.T) {
	t.Setenv("ENERGYMETRICS_CONFIG", "")
	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("ENERGYMETRICS_CONFIG", "/etc/energymetrics/config.yaml")
	if got := getConfigPath(); got != "/etc/energymetrics/config.yaml" {
		t.Errorf("getConfigPath() = %q, want override", got)
	}
}
