package qos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenConfigRejectsOutOfRange(t *testing.T) {
	_, err := ListenConfig(64, nil)
	assert.ErrorContains(t, err, "between 0 and 63")

	_, err = ListenConfig(-1, nil)
	assert.Error(t, err)
}

func TestListenConfigBestEffortHasNoControl(t *testing.T) {
	lc, err := ListenConfig(0, nil)
	require.NoError(t, err)
	assert.Nil(t, lc.Control)
}

func TestListenConfigMarksListener(t *testing.T) {
	lc, err := ListenConfig(10, nil)
	require.NoError(t, err)
	require.NotNil(t, lc.Control)

	ln, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	assert.NoError(t, ln.Close())
}

func TestToTOS(t *testing.T) {
	assert.Equal(t, 184, ToTOS(46))
	assert.Equal(t, 0, ToTOS(0))
}
