package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Energy Metrics core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Ingest    IngestConfig    `yaml:"ingest"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
}

// ServiceConfig contains instance-specific information.
type ServiceConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// IngestConfig contains ingestion pipeline settings.
type IngestConfig struct {
	// MaxPayloadBytes caps the encoded size of a whole submission. Payloads
	// larger than this are rejected before any per-item validation runs.
	MaxPayloadBytes int64 `yaml:"max_payload_bytes"`
}

// InfluxDBConfig contains settings for the optional statistics mirror.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// MQTTConfig contains settings for the optional MQTT state publisher.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains bearer-token settings for the API.
type JWTConfig struct {
	Secret         string `yaml:"secret"`
	AccessTokenTTL int    `yaml:"access_token_ttl"`
}

// defaultMaxPayloadBytes is the default whole-submission size cap (10 MB).
const defaultMaxPayloadBytes = 10 << 20

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: ENERGYMETRICS_SECTION_KEY
// For example: ENERGYMETRICS_DATABASE_PATH, ENERGYMETRICS_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:       "energymetrics-001",
			Name:     "Energy Metrics",
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Path:        "./data/energymetrics.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Ingest: IngestConfig{
			MaxPayloadBytes: defaultMaxPayloadBytes,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "energymetrics-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				AccessTokenTTL: 15,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: ENERGYMETRICS_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("ENERGYMETRICS_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("ENERGYMETRICS_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("ENERGYMETRICS_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// InfluxDB
	if v := os.Getenv("ENERGYMETRICS_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// MQTT
	if v := os.Getenv("ENERGYMETRICS_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ENERGYMETRICS_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ENERGYMETRICS_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Security - JWT secret (always override in production)
	if v := os.Getenv("ENERGYMETRICS_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// Validate checks the configuration for errors and security issues.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Ingest.MaxPayloadBytes <= 0 {
		errs = append(errs, "ingest.max_payload_bytes must be positive")
	}

	if c.MQTT.Enabled && (c.MQTT.QoS < 0 || c.MQTT.QoS > 2) {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	// The ingestion endpoint rewrites historical meter data; a forgeable
	// token would let anyone alter the energy accounting record.
	const minJWTSecretLength = 32
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set ENERGYMETRICS_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
