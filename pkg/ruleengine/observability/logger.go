// Package observability provides structured logging, metrics, and tracing
// for the rule service.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds a slog.Logger writing text or JSON records to w.
// Any format other than "json" produces text output.
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// LogRuleAdded logs that a rule was stored.
func LogRuleAdded(logger *slog.Logger, name string, fingerprint uint64) {
	if logger == nil {
		return
	}
	logger.Info("rule added",
		slog.String("rule_name", name),
		slog.Uint64("fingerprint", fingerprint),
	)
}

// LogRuleDeleted logs that a rule was removed.
func LogRuleDeleted(logger *slog.Logger, name string) {
	if logger == nil {
		return
	}
	logger.Info("rule deleted",
		slog.String("rule_name", name),
	)
}

// LogEvaluation logs a rule evaluation. missing lists the attributes the
// rule references that the record did not contain.
func LogEvaluation(logger *slog.Logger, ruleName string, result bool, durationMs float64, missing []string) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("rule_name", ruleName),
		slog.Bool("result", result),
		slog.Float64("duration_ms", durationMs),
	}
	if len(missing) > 0 {
		attrs = append(attrs, slog.Any("missing_attributes", missing))
	}
	logger.Debug("rule evaluated", attrs...)
}

// LogCombine logs a rule combination.
func LogCombine(logger *slog.Logger, ruleCount int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("rules combined",
		slog.Int("rule_count", ruleCount),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRuleError logs a failed rule operation.
func LogRuleError(logger *slog.Logger, op, ruleName string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("rule operation failed",
		slog.String("operation", op),
		slog.String("rule_name", ruleName),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
