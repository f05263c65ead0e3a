package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordEvaluation(ctx, "text", true, time.Second)
		m.RecordParseError(ctx, "add")
		m.RecordCombine(ctx, 2)
		m.RecordRuleStored(ctx)
	})
}

func TestNoopSpanManager(t *testing.T) {
	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()

	got, span := sm.StartSpan(ctx, "evaluate")
	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())
	assert.NotPanics(t, func() { sm.EndSpanWithError(span, errors.New("x")) })
}
