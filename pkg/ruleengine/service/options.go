package service

import (
	"log/slog"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/observability"
)

// options holds Engine configuration.
type options struct {
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	cacheSize int
}

// defaultOptions returns the default Engine configuration: no logging,
// no-op metrics and tracing, DefaultCacheSize cached trees.
func defaultOptions() options {
	return options{
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
		cacheSize: DefaultCacheSize,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger for rule events.
// A nil logger disables logging.
//
// Example:
//
//	engine := service.New(st, service.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Nil is ignored.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracing sets the span manager. Nil is ignored.
func WithTracing(s observability.SpanManager) Option {
	return func(o *options) {
		if s != nil {
			o.spans = s
		}
	}
}

// WithCacheSize sets how many parsed trees are cached.
// Default: DefaultCacheSize. Values below 1 are ignored.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}
