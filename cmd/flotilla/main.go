// Flotilla - Embedded Device Fleet Dashboard
//
// This is the main entry point for the Flotilla backend. Flotilla
// consumes device snapshots and online state from a fleet supervisor
// over MQTT, reconciles them into a single ordered device list, and
// serves the result to browser dashboards over REST and WebSocket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/flotilla/migrations"

	"github.com/nerrad567/flotilla/internal/api"
	"github.com/nerrad567/flotilla/internal/dashboard"
	"github.com/nerrad567/flotilla/internal/feed"
	"github.com/nerrad567/flotilla/internal/fleet"
	"github.com/nerrad567/flotilla/internal/history"
	"github.com/nerrad567/flotilla/internal/infrastructure/config"
	"github.com/nerrad567/flotilla/internal/infrastructure/database"
	"github.com/nerrad567/flotilla/internal/infrastructure/influxdb"
	"github.com/nerrad567/flotilla/internal/infrastructure/logging"
	"github.com/nerrad567/flotilla/internal/infrastructure/mqtt"
	"github.com/nerrad567/flotilla/internal/metadata"
	"github.com/nerrad567/flotilla/internal/prefs"
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
	log.Info("starting Flotilla",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open database and run migrations
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

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	mqttClient.SetLogger(log)
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

	// Connect to InfluxDB (optional) for status history
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled, status history will not be recorded")
	}

	var sink history.Sink
	if influxClient != nil {
		sink = influxClient
	}
	recorder := history.NewRecorder(sink)

	qos := byte(cfg.MQTT.QoS)

	// Metadata refresher: forwards regeneration requests to the supervisor
	refresher := metadata.New(mqttClient, qos, cfg.Dashboard.MetadataQueueSize, log)
	refresher.Start(ctx)
	defer refresher.Stop()

	// WebSocket hub is shared between the API server and the dashboard
	// controller, which broadcasts reconciliation results through it.
	hub := api.NewHub(cfg.WebSocket, log)

	deviceFeed := feed.NewDeviceFeed(mqttClient, qos)
	onlineFeed := feed.NewOnlineFeed(mqttClient, qos)

	controller := dashboard.New(dashboard.Options{
		Devices: dashboard.DeviceSourceFunc(func(h func(fleet.Snapshot)) (dashboard.Subscription, error) {
			return deviceFeed.Subscribe(h)
		}),
		Online: dashboard.OnlineSourceFunc(func(h func(fleet.OnlineMap)) (dashboard.Subscription, error) {
			return onlineFeed.Subscribe(h)
		}),
		Metadata:    refresher,
		Broadcaster: hub,
		Recorder:    recorder,
		Logger:      log.With("component", "dashboard"),
	})

	if startErr := controller.Start(); startErr != nil {
		return fmt.Errorf("starting dashboard controller: %w", startErr)
	}
	defer func() {
		log.Info("stopping dashboard controller")
		controller.Stop()
	}()
	log.Info("dashboard controller started")

	// Ask the supervisor for an initial snapshot; retained messages
	// usually arrive first, this covers a freshly started broker.
	if refreshErr := controller.Refresh(ctx); refreshErr != nil {
		log.Warn("initial device refresh failed", "error", refreshErr)
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Security:  cfg.Security,
		Logger:    log.With("component", "api"),
		Dashboard: controller,
		Prefs:     prefs.NewSQLiteStore(db),
		Broker:    mqttClient,
		Database:  db,
		Hub:       hub,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("Flotilla stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FLOTILLA_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FLOTILLA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
