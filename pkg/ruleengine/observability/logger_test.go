package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger returns a debug-level JSON logger and the buffer it writes to.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewLogger(buf, "json", slog.LevelDebug), buf
}

// lastRecord decodes the last JSON log line in buf.
func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
	return rec
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "text", slog.LevelInfo).Info("hello", slog.String("k", "v"))
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")

	buf.Reset()
	NewLogger(&buf, "json", slog.LevelInfo).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLogRuleAdded(t *testing.T) {
	logger, buf := captureLogger()
	LogRuleAdded(logger, "Rule_1", 42)

	rec := lastRecord(t, buf)
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "rule added", rec["msg"])
	assert.Equal(t, "Rule_1", rec["rule_name"])
	assert.Equal(t, float64(42), rec["fingerprint"])
}

func TestLogRuleDeleted(t *testing.T) {
	logger, buf := captureLogger()
	LogRuleDeleted(logger, "Rule_2")

	rec := lastRecord(t, buf)
	assert.Equal(t, "rule deleted", rec["msg"])
	assert.Equal(t, "Rule_2", rec["rule_name"])
}

func TestLogEvaluation(t *testing.T) {
	logger, buf := captureLogger()

	LogEvaluation(logger, "Rule_1", true, 1.5, nil)
	rec := lastRecord(t, buf)
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "rule evaluated", rec["msg"])
	assert.Equal(t, true, rec["result"])
	assert.Equal(t, 1.5, rec["duration_ms"])
	assert.NotContains(t, rec, "missing_attributes")

	LogEvaluation(logger, "", false, 0.1, []string{"age"})
	rec = lastRecord(t, buf)
	assert.Equal(t, []any{"age"}, rec["missing_attributes"])
}

func TestLogCombine(t *testing.T) {
	logger, buf := captureLogger()
	LogCombine(logger, 3, 0.25)

	rec := lastRecord(t, buf)
	assert.Equal(t, "rules combined", rec["msg"])
	assert.Equal(t, float64(3), rec["rule_count"])
}

func TestLogRuleError(t *testing.T) {
	logger, buf := captureLogger()
	LogRuleError(logger, "add", "", errors.New("parse error at position 5: expected literal"))

	rec := lastRecord(t, buf)
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "add", rec["operation"])
	assert.Contains(t, rec["error"], "expected literal")
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogRuleAdded(nil, "x", 1)
		LogRuleDeleted(nil, "x")
		LogEvaluation(nil, "x", true, 1, nil)
		LogCombine(nil, 1, 1)
		LogRuleError(nil, "op", "x", errors.New("e"))
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5.0)
}
