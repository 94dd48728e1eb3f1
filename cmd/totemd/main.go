// Totem Daemon - Physical Body Controller
//
// totemd owns the totem's hardware (LED-matrix face, character LCD,
// speaker, touch sensor) and exposes it over a unix-socket JSON
// protocol so a controlling agent can drive the body without touching
// GPIO itself.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dannybabbev/totem/migrations"

	"github.com/dannybabbev/totem/internal/events"
	"github.com/dannybabbev/totem/internal/hardware/face"
	"github.com/dannybabbev/totem/internal/hardware/lcd"
	"github.com/dannybabbev/totem/internal/hardware/sound"
	"github.com/dannybabbev/totem/internal/hardware/touch"
	"github.com/dannybabbev/totem/internal/infrastructure/config"
	"github.com/dannybabbev/totem/internal/infrastructure/database"
	"github.com/dannybabbev/totem/internal/infrastructure/influxdb"
	"github.com/dannybabbev/totem/internal/infrastructure/logging"
	"github.com/dannybabbev/totem/internal/infrastructure/mqtt"
	"github.com/dannybabbev/totem/internal/module"
	"github.com/dannybabbev/totem/internal/router"
	"github.com/dannybabbev/totem/internal/server"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/totem.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Totem daemon",
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

	// Event history store (optional)
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database ready", "path", cfg.Database.Path)
	} else {
		log.Info("database disabled, event history is in-memory only")
	}

	// MQTT fan-out (optional)
	var mqttClient *mqtt.Client
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
	} else {
		log.Info("MQTT disabled")
	}

	// Command/event telemetry (optional)
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
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Event bus with its optional sinks
	bus := events.NewBus(cfg.Events.HistorySize, cfg.GetNotifyCooldown(), log)
	if db != nil {
		bus.SetRepository(events.NewSQLiteRepository(db))
	}
	if mqttClient != nil {
		bus.SetPublisher(mqttClient)
	}
	if influxClient != nil {
		bus.SetRecorder(influxClient)
	}
	if cfg.Events.Notify.Enabled {
		bus.SetNotifier(events.NewNotifier(cfg.Events.Notify.Binary, log))
		log.Info("agent notifier enabled", "binary", cfg.Events.Notify.Binary)
	}

	// Hardware modules
	registry := module.NewRegistry(log)
	registry.SetEventSink(bus)
	registry.Start(enabledModules(cfg, log)...)
	defer func() {
		log.Info("shutting down hardware modules")
		registry.Shutdown()
	}()

	for name, reason := range registry.Failed() {
		log.Error("module failed to initialise", "module", name, "error", reason)
	}
	log.Info("hardware modules ready", "modules", registry.Names())

	// Command router
	rt := router.New(registry, bus, log)
	if influxClient != nil {
		rt.SetMetrics(influxClient)
	}

	// Reflex reaction to touch: respond on the hardware before the
	// agent even knows. Goes through the router so it takes the same
	// locks and animation pre-emption as any other command.
	bus.SetReactor(func(events.Event) {
		rt.Dispatch(router.Request{
			Module: "face",
			Action: "expression",
			Params: module.Params{"name": "surprised"},
		})
		rt.Dispatch(router.Request{
			Module: "lcd",
			Action: "write",
			Params: module.Params{
				"line1": "I felt that!",
				"line2": "Thinking...",
				"align": "center",
			},
		})
	})

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	// Retained state snapshots let MQTT subscribers see the hardware
	// without polling the socket.
	if mqttClient != nil {
		go publishStates(ctx, registry, mqttClient, log)
	}

	// Unix-socket server
	srv := server.New(cfg.Socket, rt, log)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	defer func() {
		log.Info("closing server")
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing server", "error", closeErr)
		}
	}()
	log.Info("listening", "socket", cfg.Socket.Path)

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Server (stop accepting commands, remove the socket)
	// 2. Module registry (stop animations, release hardware)
	// 3. InfluxDB, MQTT, database

	return nil
}

// enabledModules builds the hardware module set from configuration.
// Disabled modules are simply not constructed; the registry and router
// handle the smaller set transparently.
func enabledModules(cfg *config.Config, log *logging.Logger) []module.Module {
	var modules []module.Module
	if cfg.Hardware.Face.Enabled {
		modules = append(modules, face.New(nil, cfg.Hardware.Face.Brightness, log))
	}
	if cfg.Hardware.LCD.Enabled {
		modules = append(modules, lcd.New(nil, cfg.Hardware.LCD.Cols, cfg.Hardware.LCD.Rows, log))
	}
	if cfg.Hardware.Sound.Enabled {
		player := sound.NewExecPlayer(cfg.Hardware.Sound.Player)
		modules = append(modules, sound.New(player, cfg.Hardware.Sound.Volume))
	}
	if cfg.Hardware.Touch.Enabled {
		modules = append(modules, touch.New(nil, cfg.Hardware.Touch.Pin, cfg.Hardware.Touch.DebounceMS))
	}
	return modules
}

// healthCheck verifies the enabled infrastructure connections are
// healthy. Disabled sinks pass as nil and are skipped.
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
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

// statePublishInterval is how often retained module state snapshots go
// out over MQTT.
const statePublishInterval = 30 * time.Second

// publishStates periodically publishes each module's state as a
// retained MQTT message until ctx is cancelled. Failures are logged
// and retried on the next tick.
func publishStates(ctx context.Context, registry *module.Registry, client *mqtt.Client, log *logging.Logger) {
	ticker := time.NewTicker(statePublishInterval)
	defer ticker.Stop()

	publish := func() {
		for name, state := range registry.States() {
			if err := client.PublishModuleState(name, state); err != nil {
				log.Warn("publishing module state", "module", name, "error", err)
			}
		}
	}

	publish()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			publish()
		}
	}
}

// getConfigPath returns the configuration file path.
// Uses TOTEM_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("TOTEM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
