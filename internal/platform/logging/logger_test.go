package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestLogger_WritesKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, LevelInfo).Named("usecase.team").With("service", "hockey-roster")

	logger.Debug("dropped")
	logger.Warn("backend list failed", "key", "local_teams", "error", errors.New("connection refused"), "dangling")

	var record map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "usecase.team", record["logger"])
	assert.Equal(t, "hockey-roster", record["service"])
	assert.Equal(t, "local_teams", record["key"])
	assert.Equal(t, "connection refused", record["error"])
	assert.Contains(t, record, "dangling")
}

func TestLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, LevelDebug)

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	logger.InfoContext(ctx, "prefetch finished")

	var record map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, spanCtx.TraceID().String(), record["trace_id"])
	assert.Equal(t, spanCtx.SpanID().String(), record["span_id"])
}

func TestLogger_NilIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("ignored")
		_ = logger.With("k", "v")
		_ = logger.Sync()
	})
}

func TestLogger_PlainMethodsOmitTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, LevelDebug)

	logger.Error("migration failed", "version", 2)

	var record map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "span_id")
}
