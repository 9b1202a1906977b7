package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"off", OffLevel},
		{"error", ErrorLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{"info", InfoLevel},
		{" debug ", DebugLevel},
		{"trace", TraceLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestLevelOrdering(t *testing.T) {
	assert.Less(t, OffLevel, ErrorLevel)
	assert.Less(t, ErrorLevel, WarnLevel)
	assert.Less(t, WarnLevel, InfoLevel)
	assert.Less(t, InfoLevel, DebugLevel)
	assert.Less(t, DebugLevel, TraceLevel)
	assert.Equal(t, InfoLevel, DefaultLevel)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, InfoLevel, Resolve(InfoLevel, 0, 0))
	assert.Equal(t, DebugLevel, Resolve(InfoLevel, 1, 0))
	assert.Equal(t, TraceLevel, Resolve(InfoLevel, 2, 0))
	assert.Equal(t, TraceLevel, Resolve(InfoLevel, 9, 0), "clamped at trace")
	assert.Equal(t, WarnLevel, Resolve(InfoLevel, 0, 1))
	assert.Equal(t, OffLevel, Resolve(InfoLevel, 0, 3))
	assert.Equal(t, OffLevel, Resolve(InfoLevel, 0, 9), "clamped at off")
	assert.Equal(t, InfoLevel, Resolve(InfoLevel, 2, 2))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "trace", TraceLevel.String())
	assert.Equal(t, "off", OffLevel.String())
	assert.Equal(t, "Level(12)", Level(12).String())
}
