package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/config"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/observability"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/service"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// slogSpanExporter writes finished spans to a logger at debug level.
type slogSpanExporter struct {
	logger *slog.Logger
}

func (x slogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		x.logger.LogAttrs(ctx, slog.LevelDebug, "span finished",
			slog.String("span", span.Name()),
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("status", span.Status().Code.String()),
			slog.Float64("duration_ms", float64(span.EndTime().Sub(span.StartTime()).Microseconds())/1000),
		)
	}
	return nil
}

func (slogSpanExporter) Shutdown(context.Context) error { return nil }

// telemetry owns the OTel SDK providers installed for the process.
type telemetry struct {
	logger         *slog.Logger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	reader         *sdkmetric.ManualReader
}

// setupTelemetry installs global tracer and meter providers as enabled by s
// and returns the Engine options that use them.
func setupTelemetry(s config.Settings, logger *slog.Logger) (*telemetry, []service.Option) {
	t := &telemetry{logger: logger}
	res := resource.NewSchemaless(attribute.String("service.name", "ruleengine"))

	var opts []service.Option
	if s.Tracing {
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(slogSpanExporter{logger: logger}),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(t.tracerProvider)
		opts = append(opts, service.WithTracing(observability.NewSpanManager()))
	}
	if s.Metrics {
		t.reader = sdkmetric.NewManualReader()
		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(t.reader),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(t.meterProvider)
		opts = append(opts, service.WithMetrics(observability.NewMetricsRecorder()))
	}
	return t, opts
}

// shutdown logs the final metric totals and stops the providers.
func (t *telemetry) shutdown(ctx context.Context) error {
	var errs []error
	if t.meterProvider != nil {
		if err := t.logMetrics(ctx); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// logMetrics collects every instrument once and logs its total.
func (t *telemetry) logMetrics(ctx context.Context) error {
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		return err
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				t.logger.Info("metric", slog.String("name", m.Name), slog.Int64("total", total))
			case metricdata.Histogram[float64]:
				var count uint64
				var sum float64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				t.logger.Info("metric", slog.String("name", m.Name), slog.Uint64("count", count), slog.Float64("sum", sum))
			case metricdata.Histogram[int64]:
				var count uint64
				var sum int64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				t.logger.Info("metric", slog.String("name", m.Name), slog.Uint64("count", count), slog.Int64("sum", sum))
			}
		}
	}
	return nil
}
