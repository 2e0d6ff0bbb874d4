// Package esconfig manages esclientd configuration using koanf/v2.
//
// Supports YAML files and environment variables.
package esconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete esclientd configuration.
type Config struct {
	Connection ConnectionConfig `koanf:"connection"`
	Admin      AdminConfig      `koanf:"admin"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Log        LogConfig        `koanf:"log"`
}

// ConnectionConfig holds the EventStore TCP connection parameters.
type ConnectionConfig struct {
	// Addr is the EventStore TCP endpoint (e.g., "127.0.0.1:1113").
	Addr string `koanf:"addr"`

	// Username and Password, when both non-empty, are sent as the default
	// credential pair attached to every outgoing frame.
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// DialTimeout bounds the initial TCP connect.
	DialTimeout time.Duration `koanf:"dial_timeout"`

	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// PendingBufferSize is the initial capacity of the transport's map of
	// in-flight correlation awaiters; it does not limit how many requests
	// may be in flight at once.
	PendingBufferSize int `koanf:"pending_buffer_size"`
}

// AdminConfig holds the administrative ConnectRPC server configuration.
type AdminConfig struct {
	// Addr is the h2c listen address (e.g., ":50061").
	Addr string `koanf:"addr"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9101").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Addr:              "127.0.0.1:1113",
			DialTimeout:       5 * time.Second,
			WriteTimeout:      5 * time.Second,
			PendingBufferSize: 256,
		},
		Admin: AdminConfig{
			Addr: ":50061",
		},
		Metrics: MetricsConfig{
			Addr: ":9101",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for esclientd configuration.
// Variables are named ESCLIENTD_<section>_<key>, e.g., ESCLIENTD_CONNECTION_ADDR.
const envPrefix = "ESCLIENTD_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (ESCLIENTD_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms ESCLIENTD_CONNECTION_ADDR -> connection.addr.
// Only the first underscore separates section from key, so
// ESCLIENTD_CONNECTION_DIAL_TIMEOUT -> connection.dial_timeout.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.Replace(s, "_", ".", 1)
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"connection.addr":                defaults.Connection.Addr,
		"connection.username":            defaults.Connection.Username,
		"connection.password":            defaults.Connection.Password,
		"connection.dial_timeout":        defaults.Connection.DialTimeout.String(),
		"connection.write_timeout":       defaults.Connection.WriteTimeout.String(),
		"connection.pending_buffer_size": defaults.Connection.PendingBufferSize,
		"admin.addr":                     defaults.Admin.Addr,
		"metrics.addr":                   defaults.Metrics.Addr,
		"metrics.path":                   defaults.Metrics.Path,
		"log.level":                      defaults.Log.Level,
		"log.format":                     defaults.Log.Format,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptyConnectionAddr indicates the EventStore endpoint is empty.
	ErrEmptyConnectionAddr = errors.New("connection.addr must not be empty")

	// ErrInvalidDialTimeout indicates the dial timeout is non-positive.
	ErrInvalidDialTimeout = errors.New("connection.dial_timeout must be > 0")

	// ErrInvalidWriteTimeout indicates the write timeout is non-positive.
	ErrInvalidWriteTimeout = errors.New("connection.write_timeout must be > 0")

	// ErrInvalidPendingBufferSize indicates the pending buffer size is non-positive.
	ErrInvalidPendingBufferSize = errors.New("connection.pending_buffer_size must be > 0")

	// ErrPartialCredentials indicates only one of username/password was set.
	ErrPartialCredentials = errors.New("connection.username and connection.password must both be set or both be empty")
)

// Validate checks the configuration for logical errors.
// Returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg.Connection.Addr == "" {
		return ErrEmptyConnectionAddr
	}

	if cfg.Connection.DialTimeout <= 0 {
		return ErrInvalidDialTimeout
	}

	if cfg.Connection.WriteTimeout <= 0 {
		return ErrInvalidWriteTimeout
	}

	if cfg.Connection.PendingBufferSize <= 0 {
		return ErrInvalidPendingBufferSize
	}

	if (cfg.Connection.Username == "") != (cfg.Connection.Password == "") {
		return ErrPartialCredentials
	}

	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
//
// Recognized values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
