// litebridge - embedded SQLite bridge
//
// This is the operational CLI for litebridge-managed databases. It opens
// a database with the configured pragmas and runs one schema operation:
//   - version: print the stored schema version
//   - reset:   destructively wipe the database and apply a fresh schema
//   - migrate: apply one migration step with version checking
//
// Lifecycle events are announced over MQTT and operation telemetry is
// recorded to InfluxDB when those subsystems are enabled in config.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nvannote/litebridge/internal/bridge"
	"github.com/nvannote/litebridge/internal/infrastructure/config"
	"github.com/nvannote/litebridge/internal/infrastructure/influxdb"
	"github.com/nvannote/litebridge/internal/infrastructure/logging"
	"github.com/nvannote/litebridge/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

const usageText = `Usage: litebridge [-config path] <command> [flags]

Commands:
  version                          Print the stored schema version
  reset   -schema <file> -to <n>   Wipe the database and apply a fresh schema
  migrate -sql <file> -from <n> -to <n>
                                   Apply one migration step
`

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - args: Command-line arguments (without the program name)
//
// Returns:
//   - error: nil on success, or error describing failure
func run(ctx context.Context, args []string) error {
	global := flag.NewFlagSet("litebridge", flag.ContinueOnError)
	configPath := global.String("config", getConfigPath(), "path to config.yaml")
	global.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() < 1 {
		global.Usage()
		return fmt.Errorf("no command given")
	}
	command := global.Arg(0)
	commandArgs := global.Args()[1:]

	// Use default logger until config is loaded
	log := logging.Default()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("starting litebridge",
		"version", version,
		"commit", commit,
		"command", command,
	)

	// Open database
	db, err := bridge.Open(bridge.Options{
		Path:              cfg.Database.Path,
		Passphrase:        cfg.Database.Passphrase,
		ExclusiveLocking:  cfg.Database.ExclusiveLocking,
		TempStoreInMemory: cfg.Database.TempStoreMemory,
		FullSynchronous:   cfg.Database.FullSynchronous,
		BusyTimeout:       cfg.GetBusyTimeout(),
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
	log.Info("database opened", "path", cfg.Database.Path)

	// Connect to MQTT broker (optional)
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
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
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
	}

	app := &app{
		cfg:    cfg,
		db:     db,
		mqtt:   mqttClient,
		influx: influxClient,
		log:    log,
	}

	switch command {
	case "version":
		return app.runVersion(ctx)
	case "reset":
		return app.runReset(ctx, commandArgs)
	case "migrate":
		return app.runMigrate(ctx, commandArgs)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// getConfigPath returns the configuration file path.
// Uses LITEBRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LITEBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// app bundles the opened subsystems for command handlers.
type app struct {
	cfg    *config.Config
	db     *bridge.Database
	mqtt   *mqtt.Client
	influx *influxdb.Client
	log    *logging.Logger
}

// schemaEvent is the JSON payload published on schema lifecycle topics.
type schemaEvent struct {
	Database    string `json:"database"`
	FromVersion int    `json:"from_version,omitempty"`
	Version     int    `json:"version"`
	Timestamp   string `json:"timestamp"`
}

// runVersion prints the stored schema version.
func (a *app) runVersion(ctx context.Context) error {
	v, err := a.db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}

// runReset wipes the database and applies a fresh schema.
func (a *app) runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	schemaFile := fs.String("schema", "", "path to the full schema SQL file")
	toVersion := fs.Int("to", 0, "schema version to stamp")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaFile == "" || *toVersion <= 0 {
		return fmt.Errorf("reset requires -schema <file> and -to <version>")
	}

	schemaSQL, err := os.ReadFile(*schemaFile)
	if err != nil {
		return fmt.Errorf("reading schema file: %w", err)
	}

	a.log.Warn("resetting database (destructive)",
		"path", a.cfg.Database.Path,
		"to_version", *toVersion,
	)

	start := time.Now()
	err = a.db.UnsafeResetDatabase(ctx, string(schemaSQL), *toVersion)
	a.recordOperation("reset", time.Since(start), err == nil, *toVersion)
	if err != nil {
		return fmt.Errorf("resetting database: %w", err)
	}

	a.publishEvent(mqtt.Topics{}.SchemaReset(), schemaEvent{
		Database:  a.cfg.Database.Path,
		Version:   *toVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	a.log.Info("database reset complete", "version", *toVersion)
	return nil
}

// runMigrate applies one migration step.
func (a *app) runMigrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	sqlFile := fs.String("sql", "", "path to the migration SQL file")
	fromVersion := fs.Int("from", 0, "expected current schema version")
	toVersion := fs.Int("to", 0, "schema version to stamp")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sqlFile == "" || *fromVersion <= 0 || *toVersion <= 0 {
		return fmt.Errorf("migrate requires -sql <file>, -from <version> and -to <version>")
	}

	migrationSQL, err := os.ReadFile(*sqlFile)
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	start := time.Now()
	err = a.db.Migrate(ctx, string(migrationSQL), *fromVersion, *toVersion)
	a.recordOperation("migrate", time.Since(start), err == nil, *toVersion)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	a.publishEvent(mqtt.Topics{}.SchemaMigrated(), schemaEvent{
		Database:    a.cfg.Database.Path,
		FromVersion: *fromVersion,
		Version:     *toVersion,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})

	a.log.Info("migration applied", "from", *fromVersion, "to", *toVersion)
	return nil
}

// recordOperation writes operation telemetry when InfluxDB is enabled.
func (a *app) recordOperation(operation string, duration time.Duration, success bool, version int) {
	if a.influx == nil {
		return
	}
	a.influx.WriteOperationMetric(a.cfg.Database.Path, operation, duration, success)
	if success {
		a.influx.WriteSchemaVersion(a.cfg.Database.Path, version)
	}
}

// publishEvent announces a schema lifecycle event when MQTT is enabled.
// Publish failures are logged, not fatal: the schema change itself has
// already committed.
func (a *app) publishEvent(topic string, event schemaEvent) {
	if a.mqtt == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		a.log.Error("encoding event payload", "topic", topic, "error", err)
		return
	}
	if err := a.mqtt.PublishEvent(topic, payload); err != nil {
		a.log.Error("publishing event", "topic", topic, "error", err)
	}
}
