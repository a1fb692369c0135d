// Energy Metrics Core - historical energy meter ingestion service
//
// This is the main entry point for the metrics service. It accepts meter
// readings from gateway submitters over HTTP, persists them in SQLite,
// derives a latest-reading view for dashboards, and optionally mirrors
// records to InfluxDB and state to MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/energy-metrics-core/migrations"

	"github.com/nerrad567/energy-metrics-core/internal/api"
	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/config"
	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/database"
	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/logging"
	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/energy-metrics-core/internal/metric"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Energy Metrics Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Load the record store. A malformed history is not fatal; the service
	// starts empty and keeps accepting new submissions.
	store := metric.NewStore(db.DB, log)
	if loadErr := store.Load(ctx); loadErr != nil {
		log.Error("loading stored metrics failed, starting empty", "error", loadErr)
	}
	log.Info("metric store initialised", "records", store.Count())

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	var publishers []metric.ViewPublisher
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		publishers = append(publishers, mqtt.NewStatePublisher(mqttClient, log))
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	var sinks []metric.Sink
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		// Lifecycle marker so restarts are visible alongside the metrics.
		influxClient.WritePoint("service_lifecycle",
			map[string]string{"service": cfg.Service.Name},
			map[string]interface{}{"event": "startup", "version": version},
		)

		sinks = append(sinks, influxClient)
	} else {
		log.Info("InfluxDB disabled")
	}

	// The WebSocket hub is created up front so it can join the projector's
	// publisher list before the server starts.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)
	publishers = append(publishers, hub)

	projector := metric.NewProjector(store, publishers, log)
	ingestor := metric.NewIngestor(store, projector, sinks, log)

	apiServer, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Ingest:      cfg.Ingest,
		Security:    cfg.Security,
		Logger:      log,
		Store:       store,
		Ingestor:    ingestor,
		Projector:   projector,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Energy Metrics Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ENERGYMETRICS_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ENERGYMETRICS_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// The MQTT and InfluxDB clients may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
