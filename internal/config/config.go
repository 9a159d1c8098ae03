package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/tidewell/scheduler/internal/shardqueue"
)

// Prefix is the environment prefix, e.g. SCHEDULER_STORE_DRIVER.
const Prefix = "SCHEDULER"

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverHTTP     = "http"
)

// Config holds settings shared by the store service and the CLI.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// StoreDriver selects the remote appointment store backend.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/appointments.db"`
	StoreURL    string `envconfig:"STORE_URL" default:"http://localhost:8080"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Calendar day bounds used for the default new-appointment slot.
	DayStartHour int    `envconfig:"DAY_START_HOUR" default:"9"`
	DayEndHour   int    `envconfig:"DAY_END_HOUR" default:"19"`
	Timezone     string `envconfig:"TIMEZONE" default:"Local"`

	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	HealthInterval     time.Duration `envconfig:"HEALTH_INTERVAL" default:"30s"`
	HealthProbeTimeout time.Duration `envconfig:"HEALTH_PROBE_TIMEOUT" default:"2s"`
	StartupTimeout     time.Duration `envconfig:"STARTUP_TIMEOUT" default:"10s"`

	// Queue tunes the remote write executor (SCHEDULER_SQ_*).
	Queue shardqueue.Config `envconfig:"SQ"`

	location *time.Location
}

// ResolveDefaults validates the loaded values and resolves the time zone.
func (c *Config) ResolveDefaults() error {
	switch c.StoreDriver {
	case "":
		c.StoreDriver = DriverSQLite
	case DriverMemory, DriverSQLite, DriverPostgres, DriverHTTP:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	if c.StoreDriver == DriverPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
	}
	if c.StoreDriver == DriverHTTP && c.StoreURL == "" {
		return fmt.Errorf("STORE_URL is required for the http driver")
	}
	if c.DayStartHour < 0 || c.DayEndHour > 24 || c.DayStartHour >= c.DayEndHour {
		return fmt.Errorf("invalid day hours: start=%d end=%d", c.DayStartHour, c.DayEndHour)
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// New parses SCHEDULER_* environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("store_driver", cfg.StoreDriver).
		Int("port", cfg.HTTPPort).
		Str("timezone", cfg.Timezone).
		Int("day_start_hour", cfg.DayStartHour).
		Int("day_end_hour", cfg.DayEndHour).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Int("queue_shards", cfg.Queue.Shards).
		Msg("Configuration loaded")

	return &cfg, nil
}

// Load reads an optional .env file (or the given files) into the process
// environment without overriding variables that are already set, then
// calls New.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	return New()
}

// NewForTesting returns a validated in-memory configuration.
func NewForTesting() *Config {
	cfg := &Config{
		Environment:        EnvTesting,
		LogLevel:           "debug",
		StoreDriver:        DriverMemory,
		HTTPPort:           8080,
		DayStartHour:       9,
		DayEndHour:         19,
		Timezone:           "UTC",
		RequestTimeout:     5 * time.Second,
		HealthInterval:     50 * time.Millisecond,
		HealthProbeTimeout: time.Second,
		StartupTimeout:     2 * time.Second,
		Queue:              shardqueue.Config{Shards: 2, MaxAttempts: 2, BaseBackoff: 10 * time.Millisecond},
	}
	if err := cfg.ResolveDefaults(); err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// Location is the resolved Timezone; time.Local before ResolveDefaults.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// GetHTTPAddr returns the HTTP server listen address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
