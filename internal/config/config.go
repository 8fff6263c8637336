// Package config manages the gonet daemon configuration using koanf/v2.
//
// Supports defaults, YAML files, and environment variables, layered in
// that order (each later source overrides the earlier ones).
package config

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

// Config holds the complete gonetd configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig holds the TCP server's listen parameters.
type ServerConfig struct {
	// Port is the TCP listen port.
	Port uint16 `koanf:"port"`
	// Backlog is the listen() backlog passed to internal/acceptor.
	Backlog int `koanf:"backlog"`
	// AcceptTimeout bounds each accept() poll slice, letting the
	// acceptor observe shutdown between attempts.
	AcceptTimeout time.Duration `koanf:"accept_timeout"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
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
		Server: ServerConfig{
			Port:          9000,
			Backlog:       128,
			AcceptTimeout: 200 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
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

// envPrefix is the environment variable prefix for gonetd configuration.
// Variables are named GONET_<section>_<key>, e.g., GONET_SERVER_PORT.
const envPrefix = "GONET_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (GONET_ prefix), and merges on top of DefaultConfig().
// Missing fields inherit defaults.
//
// Environment variable mapping:
//
//	GONET_SERVER_PORT        -> server.port
//	GONET_SERVER_BACKLOG     -> server.backlog
//	GONET_SERVER_ACCEPT_TIMEOUT -> server.accept_timeout
//	GONET_METRICS_ADDR       -> metrics.addr
//	GONET_METRICS_PATH       -> metrics.path
//	GONET_LOG_LEVEL          -> log.level
//	GONET_LOG_FORMAT         -> log.format
//
// Uses koanf/v2 with file + env providers and YAML parser.
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

// envKeyMapper transforms GONET_SERVER_PORT -> server.port.
// Strips the GONET_ prefix, lowercases, and replaces only the first _
// with ., so multi-word keys such as accept_timeout keep their underscore.
func envKeyMapper(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"server.port":           defaults.Server.Port,
		"server.backlog":        defaults.Server.Backlog,
		"server.accept_timeout": defaults.Server.AcceptTimeout.String(),
		"metrics.addr":          defaults.Metrics.Addr,
		"metrics.path":          defaults.Metrics.Path,
		"log.level":             defaults.Log.Level,
		"log.format":            defaults.Log.Format,
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
	// ErrInvalidPort indicates the server port is zero.
	ErrInvalidPort = errors.New("server.port must be nonzero")

	// ErrInvalidBacklog indicates the listen backlog is not positive.
	ErrInvalidBacklog = errors.New("server.backlog must be > 0")

	// ErrInvalidAcceptTimeout indicates the accept poll slice is not positive.
	ErrInvalidAcceptTimeout = errors.New("server.accept_timeout must be > 0")

	// ErrEmptyMetricsAddr indicates the metrics listen address is empty.
	ErrEmptyMetricsAddr = errors.New("metrics.addr must not be empty")
)

// Validate checks the configuration for logical errors.
// Returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg.Server.Port == 0 {
		return ErrInvalidPort
	}
	if cfg.Server.Backlog <= 0 {
		return ErrInvalidBacklog
	}
	if cfg.Server.AcceptTimeout <= 0 {
		return ErrInvalidAcceptTimeout
	}
	if cfg.Metrics.Addr == "" {
		return ErrEmptyMetricsAddr
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
