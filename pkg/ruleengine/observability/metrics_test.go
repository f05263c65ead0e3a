package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates metrics on a private provider backed by a manual reader.
func setupMetricsTest(t *testing.T) (*otelMetrics, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})

	m, err := newOtelMetrics(provider.Meter("ruleengine-test"))
	require.NoError(t, err)
	return m, reader
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumOf totals an int64 sum metric across data points.
func sumOf(t *testing.T, rm *metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	require.NotNil(t, m, "metric %s not found", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type for %s", name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	defer func() {
		otel.SetMeterProvider(original)
		_ = provider.Shutdown(context.Background())
	}()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")

	recorder.RecordRuleStored(context.Background())
	assert.Equal(t, int64(1), sumOf(t, collectMetrics(t, reader), "ruleengine.rule.stored"))
}

func TestRecordEvaluation(t *testing.T) {
	m, reader := setupMetricsTest(t)
	ctx := context.Background()

	m.RecordEvaluation(ctx, "text", true, 2*time.Millisecond)
	m.RecordEvaluation(ctx, "name", false, time.Millisecond)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumOf(t, rm, "ruleengine.rule.evaluations"))

	count := findMetric(rm, "ruleengine.rule.evaluations")
	sum := count.Data.(metricdata.Sum[int64])
	found := false
	for _, dp := range sum.DataPoints {
		source, _ := dp.Attributes.Value("source")
		result, _ := dp.Attributes.Value("result")
		if source.AsString() == "text" && result.AsBool() {
			found = true
			assert.Equal(t, int64(1), dp.Value)
		}
	}
	assert.True(t, found, "Expected datapoint for source=text result=true")

	latency := findMetric(rm, "ruleengine.rule.evaluation_latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "Expected Histogram type")
	assert.NotEmpty(t, hist.DataPoints)
}

func TestRecordParseError(t *testing.T) {
	m, reader := setupMetricsTest(t)
	m.RecordParseError(context.Background(), "add")
	m.RecordParseError(context.Background(), "evaluate")

	assert.Equal(t, int64(2), sumOf(t, collectMetrics(t, reader), "ruleengine.rule.parse_errors"))
}

func TestRecordCombine(t *testing.T) {
	m, reader := setupMetricsTest(t)
	m.RecordCombine(context.Background(), 3)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumOf(t, rm, "ruleengine.rule.combines"))

	size := findMetric(rm, "ruleengine.rule.combine_size")
	require.NotNil(t, size)
	hist, ok := size.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(3), hist.DataPoints[0].Sum)
}
