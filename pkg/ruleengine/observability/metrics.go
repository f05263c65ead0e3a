package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records rule service metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records one evaluation, its outcome and latency.
	// source is "text" or "name" depending on how the rule was supplied.
	RecordEvaluation(ctx context.Context, source string, result bool, duration time.Duration)

	// RecordParseError records rule text rejected by the parser.
	RecordParseError(ctx context.Context, op string)

	// RecordCombine records a combination of ruleCount rules.
	RecordCombine(ctx context.Context, ruleCount int)

	// RecordRuleStored records a rule written to the store.
	RecordRuleStored(ctx context.Context)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations       metric.Int64Counter
	evaluationLatency metric.Float64Histogram
	parseErrors       metric.Int64Counter
	combines          metric.Int64Counter
	combineSize       metric.Int64Histogram
	stored            metric.Int64Counter
}

// newOtelMetrics creates the instruments on the given meter.
func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	evaluations, err := meter.Int64Counter("ruleengine.rule.evaluations",
		metric.WithDescription("Number of rule evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evaluationLatency, err := meter.Float64Histogram("ruleengine.rule.evaluation_latency_ms",
		metric.WithDescription("Rule evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	parseErrors, err := meter.Int64Counter("ruleengine.rule.parse_errors",
		metric.WithDescription("Number of rule texts rejected by the parser"),
	)
	if err != nil {
		return nil, err
	}

	combines, err := meter.Int64Counter("ruleengine.rule.combines",
		metric.WithDescription("Number of rule combinations"),
	)
	if err != nil {
		return nil, err
	}

	combineSize, err := meter.Int64Histogram("ruleengine.rule.combine_size",
		metric.WithDescription("Number of rules per combination"),
	)
	if err != nil {
		return nil, err
	}

	stored, err := meter.Int64Counter("ruleengine.rule.stored",
		metric.WithDescription("Number of rules written to the store"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:       evaluations,
		evaluationLatency: evaluationLatency,
		parseErrors:       parseErrors,
		combines:          combines,
		combineSize:       combineSize,
		stored:            stored,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := newOtelMetrics(otel.Meter("ruleengine"))
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records an evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, source string, result bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("result", result),
	)
	m.evaluations.Add(ctx, 1, attrs)
	m.evaluationLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordParseError records a parse failure.
func (m *otelMetrics) RecordParseError(ctx context.Context, op string) {
	m.parseErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}

// RecordCombine records a combination.
func (m *otelMetrics) RecordCombine(ctx context.Context, ruleCount int) {
	m.combines.Add(ctx, 1)
	m.combineSize.Record(ctx, int64(ruleCount))
}

// RecordRuleStored records a stored rule.
func (m *otelMetrics) RecordRuleStored(ctx context.Context) {
	m.stored.Add(ctx, 1)
}
