package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/config"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/observability"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/service"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/store"
)

// commonFlags are accepted by every command.
type commonFlags struct {
	config    string
	database  string
	logLevel  string
	logFormat string
}

func newFlagSet(name string, e env) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	c := &commonFlags{}
	fs.StringVar(&c.config, "config", "", "YAML or JSON config file")
	fs.StringVar(&c.database, "db", "", "SQLite database path (default from config, else rules.db)")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&c.logFormat, "log-format", "", "text or json")
	return fs, c
}

// settings loads the config file, if any, and the RULEENGINE_* environment,
// then applies flag overrides.
func (c *commonFlags) settings() (config.Settings, error) {
	cfg, err := config.Load(c.config, os.LookupEnv)
	if err != nil {
		return config.Settings{}, err
	}
	s := cfg.Settings()
	if c.database != "" {
		s.Database = c.database
	}
	if c.logLevel != "" {
		s.LogLevel = c.logLevel
	}
	if c.logFormat != "" {
		s.LogFormat = c.logFormat
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// newLogger builds the process logger from s. Logs go to stderr so command
// output on stdout stays clean.
func newLogger(s config.Settings, e env) *slog.Logger {
	level, _ := s.Level()
	return observability.NewLogger(e.stderr, s.LogFormat, level)
}

// openEngine opens the configured SQLite store and wraps it in an Engine.
// The returned store must be closed by the caller.
func openEngine(s config.Settings, opts ...service.Option) (*service.Engine, store.Store, error) {
	st, err := store.NewSQLiteStore(s.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open rule store: %w", err)
	}
	opts = append([]service.Option{service.WithCacheSize(s.CacheSize)}, opts...)
	return service.New(st, opts...), st, nil
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}
