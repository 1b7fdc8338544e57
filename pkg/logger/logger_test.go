package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "storagemanager/internal/core/context"
)

func TestWithContext_AddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext("trace-1", "req-1"))
	log.WithContext(ctx).Infow("balance changed", "amount", 5)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(5), fields["amount"])
}

func TestWithComponent_TagsEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &Logger{zap.New(core).Sugar()}

	log.WithComponent("balance").Infow("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "balance", logs.All()[0].ContextMap()["component"])
}

func TestNewNop_Discards(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().WithComponent("test").Infow("ignored")
	})
}
