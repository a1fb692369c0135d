package config

import (
	"os"
	"path/filepath"
	"testing"
)

// validJWTSecret meets the 32-character minimum requirement.
const validJWTSecret = "test-secret-key-at-least-32-chars!"

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
service:
  id: "test-service"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "0.0.0.0"
  port: 8080
security:
  jwt:
    secret: "` + validJWTSecret + `"
`
	cfg, err := Load(writeTestConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-service" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-service")
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	// Unset sections keep their defaults
	if cfg.Ingest.MaxPayloadBytes != defaultMaxPayloadBytes {
		t.Errorf("Ingest.MaxPayloadBytes = %d, want %d", cfg.Ingest.MaxPayloadBytes, defaultMaxPayloadBytes)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTestConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
service:
  id: "test-service"
database:
  path: "/tmp/original.db"
api:
  port: 8080
security:
  jwt:
    secret: "` + validJWTSecret + `"
`
	t.Setenv("ENERGYMETRICS_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("ENERGYMETRICS_API_PORT", "9090")

	cfg, err := Load(writeTestConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override %q", cfg.Database.Path, "/tmp/override.db")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want env override 9090", cfg.API.Port)
	}
}

func TestConfig_Validate(t *testing.T) {
	validConfig := func() *Config {
		cfg := defaultConfig()
		cfg.Security.JWT.Secret = validJWTSecret
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing service id",
			mutate:  func(c *Config) { c.Service.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "non-positive payload cap",
			mutate:  func(c *Config) { c.Ingest.MaxPayloadBytes = 0 },
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Security.JWT.Secret = "" },
			wantErr: true,
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWT.Secret = "too-short" },
			wantErr: true,
		},
		{
			name: "invalid mqtt qos when enabled",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.QoS = 3
			},
			wantErr: true,
		},
		{
			name: "influxdb enabled without url",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Bucket = "metrics"
			},
			wantErr: true,
		},
		{
			name: "influxdb enabled with url and bucket",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = "http://localhost:8086"
				c.InfluxDB.Bucket = "metrics"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_TimeoutHelpers(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %vs, want 30s", got)
	}
	if got := cfg.GetWriteTimeout().Seconds(); got != 30 {
		t.Errorf("GetWriteTimeout() = %vs, want 30s", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %vs, want 60s", got)
	}
}
