package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/observability"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/store"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// newTestEngine returns an Engine over a fresh in-memory store.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close() })
	return New(st, opts...), st
}

// newSQLiteEngine returns an Engine over a SQLite file in a temp dir.
func newSQLiteEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st, opts...)
}

// recordingMetrics counts calls made to a MetricsRecorder.
type recordingMetrics struct {
	mu          sync.Mutex
	evaluations []string
	parseErrors []string
	combines    []int
	stored      int
}

func (m *recordingMetrics) RecordEvaluation(_ context.Context, source string, _ bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations = append(m.evaluations, source)
}

func (m *recordingMetrics) RecordParseError(_ context.Context, op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parseErrors = append(m.parseErrors, op)
}

func (m *recordingMetrics) RecordCombine(_ context.Context, ruleCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.combines = append(m.combines, ruleCount)
}

func (m *recordingMetrics) RecordRuleStored(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored++
}

// recordingSpans records started span operations and ended errors.
type recordingSpans struct {
	observability.NoopSpanManager
	mu     sync.Mutex
	ops    []string
	errors []error
}

func (s *recordingSpans) StartSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	s.mu.Lock()
	s.ops = append(s.ops, op)
	s.mu.Unlock()
	return s.NoopSpanManager.StartSpan(ctx, op, attrs...)
}

func (s *recordingSpans) EndSpanWithError(_ trace.Span, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}
