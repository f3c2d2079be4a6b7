package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	newCtx := WithContext(ctx, logger)
	assert.Equal(t, logger, FromContext(newCtx))
}

func TestFromContext_NotFound(t *testing.T) {
	ctx := context.Background()
	logger := FromContext(ctx)
	require.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	ctx := context.Background()
	requestID := "req-123"

	newCtx, newLogger := WithRequestID(ctx, logger, requestID)

	assert.Equal(t, requestID, GetRequestID(newCtx))

	newLogger.Info("test message")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, requestID, entries[0].ContextMap()["request_id"])
}

func TestGetRequestID_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
}

func TestContextLogger_InjectsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithContext(context.Background(), logger)
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")

	L(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-456", entries[0].ContextMap()["request_id"])
}

func TestContextLogger_With(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	cl := WithLogger(context.Background(), logger).With(zap.String("component", "billing"))
	cl.Warn("something")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "billing", entries[0].ContextMap()["component"])
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
}

func TestContextLogger_NilLoggerDoesNotPanic(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() {
		cl.Debug("debug")
		cl.Info("info")
		cl.Warn("warn")
		cl.Error("error")
	})
}

func TestContextLogger_Zap(t *testing.T) {
	logger := zap.NewNop()
	cl := WithLogger(context.Background(), logger)
	assert.NotNil(t, cl.Zap())
}
