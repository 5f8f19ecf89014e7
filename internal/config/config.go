package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. BUILDOPS_DB.
const Prefix = "BUILDOPS"

// Config holds process configuration read from the environment.
type Config struct {
	// APIURL is the remote API origin used when rendering export links.
	APIURL string `envconfig:"API_URL" default:"https://api.construction-management.com/v1"`

	// DB is a SQLite path or ":memory:" for a session-scoped store.
	DB string `envconfig:"DB" default:":memory:"`

	Latency     time.Duration `envconfig:"LATENCY" default:"500ms"`
	StaleTime   time.Duration `envconfig:"STALE_TIME" default:"60s"`
	FailureRate float64       `envconfig:"FAILURE_RATE" default:"0"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogCalls bool   `envconfig:"LOG_CALLS" default:"false"`
}

// Load reads the configuration and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges envconfig cannot express.
func (c Config) Validate() error {
	if c.Latency < 0 {
		return fmt.Errorf("%s_LATENCY must not be negative (got %s)", Prefix, c.Latency)
	}
	if c.StaleTime < 0 {
		return fmt.Errorf("%s_STALE_TIME must not be negative (got %s)", Prefix, c.StaleTime)
	}
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return fmt.Errorf("%s_FAILURE_RATE must be between 0 and 1 (got %g)", Prefix, c.FailureRate)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%s_LOG_LEVEL %q is not one of debug, info, warn, error", Prefix, c.LogLevel)
	}
}

// ExportURL joins a resource path onto the API origin.
func (c Config) ExportURL(path string) string {
	return strings.TrimRight(c.APIURL, "/") + "/" + strings.TrimLeft(path, "/")
}
