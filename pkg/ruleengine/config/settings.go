package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Settings is the rule service's runtime configuration.
type Settings struct {
	// Listen is the HTTP listen address.
	Listen string
	// Database is the SQLite path; ":memory:" keeps rules in memory.
	Database string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is "text" or "json".
	LogFormat string
	// Metrics enables OpenTelemetry metrics.
	Metrics bool
	// Tracing enables OpenTelemetry tracing.
	Tracing bool
	// CacheSize bounds the parsed-rule cache; zero or less is unbounded.
	CacheSize int
	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Listen:          ":8080",
		Database:        "rules.db",
		LogLevel:        "info",
		LogFormat:       "text",
		CacheSize:       1024,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Settings keys, in the order they are documented.
const (
	KeyListen          = "server.listen"
	KeyShutdownTimeout = "server.shutdown_timeout"
	KeyDatabase        = "store.path"
	KeyCacheSize       = "store.cache_size"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyMetrics         = "telemetry.metrics"
	KeyTracing         = "telemetry.tracing"
)

var settingKeys = []string{
	KeyListen, KeyShutdownTimeout, KeyDatabase, KeyCacheSize,
	KeyLogLevel, KeyLogFormat, KeyMetrics, KeyTracing,
}

// Settings extracts service settings, falling back to Default for missing keys.
func (c Config) Settings() Settings {
	d := Default()
	return Settings{
		Listen:          c.String(KeyListen, d.Listen),
		Database:        c.String(KeyDatabase, d.Database),
		LogLevel:        c.String(KeyLogLevel, d.LogLevel),
		LogFormat:       c.String(KeyLogFormat, d.LogFormat),
		Metrics:         c.Bool(KeyMetrics, d.Metrics),
		Tracing:         c.Bool(KeyTracing, d.Tracing),
		CacheSize:       c.Int(KeyCacheSize, d.CacheSize),
		ShutdownTimeout: c.Duration(KeyShutdownTimeout, d.ShutdownTimeout),
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if s.Database == "" {
		return fmt.Errorf("database path is required")
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", s.LogFormat)
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// Level converts LogLevel to a slog.Level.
func (s Settings) Level() (slog.Level, error) {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s.LogLevel)
	}
}
