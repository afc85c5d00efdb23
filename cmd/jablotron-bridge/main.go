// Jablotron Bridge - Jablotron Cloud to MQTT gateway
//
// This is the main entry point for the Jablotron bridge daemon.
// The bridge polls a Jablotron Cloud account and republishes alarm
// state over MQTT for local automation, accepting arm/disarm and
// gate commands in return. Thermometer readings can optionally be
// recorded to InfluxDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/jablotron-bridge/internal/bridge"
	"github.com/nerrad567/jablotron-bridge/internal/infrastructure/config"
	"github.com/nerrad567/jablotron-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/jablotron-bridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/jablotron-bridge/internal/infrastructure/tsdb"
	"github.com/nerrad567/jablotron-bridge/jablotron"
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
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Jablotron bridge",
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
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Create the cloud client and establish a session
	cloudClient, err := jablotron.New(jablotron.Config{
		Username: cfg.Cloud.Username,
		Password: cfg.Cloud.Password,
		PinCode:  cfg.Cloud.PinCode,
		BaseURL:  cfg.Cloud.BaseURL,
		Timeout:  cfg.GetCloudTimeout(),
	})
	if err != nil {
		return fmt.Errorf("creating cloud client: %w", err)
	}

	if err := cloudClient.PerformLogin(ctx); err != nil {
		return fmt.Errorf("logging in to Jablotron Cloud: %w", err)
	}
	log.Info("Jablotron Cloud session established", "username", cfg.Cloud.Username)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
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
	mqttClient.SetLogger(log)

	// Connect to InfluxDB (optional)
	var thermoWriter bridge.TemperatureWriter
	var tsdbClient *tsdb.Client
	if cfg.InfluxDB.Enabled {
		tsdbClient, err = tsdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := tsdbClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		tsdbClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		thermoWriter = tsdbClient
	} else {
		log.Info("InfluxDB disabled")
	}

	// Create and start the bridge
	br, err := bridge.New(bridge.Options{
		Cloud:        cloudClient,
		MQTT:         mqttClient,
		Thermo:       thermoWriter,
		Logger:       log,
		PollInterval: cfg.GetPollInterval(),
		ServiceType:  cfg.Bridge.ServiceType,
		Thermometers: cfg.Bridge.Thermometers,
	})
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}

	if err := br.Start(ctx); err != nil {
		return fmt.Errorf("starting bridge: %w", err)
	}
	defer func() {
		log.Info("stopping bridge")
		br.Stop()
	}()

	// A broker reconnect may have lost retained state; force a full
	// republish on the next poll.
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
		br.ClearStateCache()
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Verify all connections are healthy
	if err := healthCheck(ctx, mqttClient, tsdbClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Bridge (stops polling, drains in-flight commands)
	// 2. InfluxDB (if enabled)
	// 3. MQTT

	log.Info("Jablotron bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses JABLOTRON_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("JABLOTRON_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - mqttClient: MQTT client to check
//   - tsdbClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, tsdbClient *tsdb.Client) error {
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if tsdbClient != nil {
		if err := tsdbClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	// Cloud health is verified during PerformLogin - a session is
	// established before the bridge starts polling.

	return nil
}
