package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewFiltersAtLevel(t *testing.T) {
	for _, development := range []bool{true, false} {
		log, err := New(WarnLevel, development)
		require.NoError(t, err)

		assert.Nil(t, log.Check(zapcore.InfoLevel, "hidden"))
		assert.NotNil(t, log.Check(zapcore.WarnLevel, "shown"))
	}
}

func TestNewTraceEnablesEverything(t *testing.T) {
	log, err := New(TraceLevel, false)
	require.NoError(t, err)

	assert.NotNil(t, log.Check(ZapTraceLevel, "trace"))
	assert.NotNil(t, log.Check(zapcore.DebugLevel, "debug"))
}

func TestNewOffIsNop(t *testing.T) {
	log, err := New(OffLevel, true)
	require.NoError(t, err)
	assert.Nil(t, log.Check(zapcore.ErrorLevel, "dropped"))
}

func TestTrace(t *testing.T) {
	core, logs := observer.New(ZapTraceLevel)
	Trace(zap.New(core), "request", zap.String("path", "/health"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, ZapTraceLevel, entry.Level)
	assert.Equal(t, "/health", entry.ContextMap()["path"])

	core, logs = observer.New(zapcore.DebugLevel)
	Trace(zap.New(core), "dropped")
	assert.Zero(t, logs.Len())
}

func TestIsDevelopmentFromEnv(t *testing.T) {
	t.Setenv("GURTDNS_LOG_FORMAT", "console")
	assert.True(t, IsDevelopment())

	t.Setenv("GURTDNS_LOG_FORMAT", "json")
	assert.False(t, IsDevelopment())
}

func TestTraceReportsCallerOfTrace(t *testing.T) {
	core, logs := observer.New(ZapTraceLevel)
	log := zap.New(core, zap.AddCaller())

	Trace(log, "request")

	require.Equal(t, 1, logs.Len())
	caller := logs.All()[0].Caller
	require.True(t, caller.Defined)
	assert.Equal(t, "logger_test.go", filepath.Base(caller.File))
}
