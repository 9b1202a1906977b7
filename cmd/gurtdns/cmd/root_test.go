package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/bootstrap"
	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/logger"
)

// recordingStarter is a Starter test double that records its invocations.
type recordingStarter struct {
	err   error
	calls []bootstrap.Invocation
}

func (r *recordingStarter) Start(_ context.Context, inv bootstrap.Invocation, _ *zap.Logger) error {
	r.calls = append(r.calls, inv)
	return r.err
}

// setupStarter swaps the real server for a recording double.
func setupStarter(t *testing.T, err error) *recordingStarter {
	t.Helper()
	starter := &recordingStarter{err: err}
	original := newStarter
	newStarter = func() bootstrap.Starter { return starter }
	t.Cleanup(func() { newStarter = original })
	return starter
}

// resetFlags restores the global flag variables; cobra keeps their values
// between executions of the same command tree.
func resetFlags() {
	cfgFile = config.DefaultPath
	verbose = 0
	quiet = 0
	logLevel = ""
	configInitForce = false
	configShowFormat = "toml"
	domainsStatus = ""
	domainsTLD = ""
	domainsLimit = 20
	domainsJSON = false
	domainsSince = ""
	domainsStats = false
}

// run executes the CLI with args and returns the exit code plus captured output.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	resetFlags()
	t.Setenv("GURTDNS_LOG_FORMAT", "json")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	code := execute(context.Background(), args, &stderr)
	return code, stdout.String(), stderr.String()
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("# placeholder\n"), 0644))
}

func TestStartWithoutConfigWritesDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	starter := setupStarter(t, nil)

	code, _, _ := run(t, "start")

	assert.Equal(t, bootstrap.ExitConfigWritten, code)
	assert.FileExists(t, "config.toml")
	assert.Empty(t, starter.calls)
}

func TestStartWithConfigDispatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gurt.toml")
	touch(t, path)
	starter := setupStarter(t, nil)

	code, _, stderr := run(t, "start", "--config", path)

	assert.Equal(t, bootstrap.ExitOK, code, stderr)
	require.Len(t, starter.calls, 1)
	assert.Equal(t, path, starter.calls[0].ConfigPath)
	assert.Equal(t, logger.InfoLevel, starter.calls[0].Verbosity)
	assert.IsType(t, bootstrap.Start{}, starter.calls[0].Command)
}

func TestStartServerFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	touch(t, path)
	setupStarter(t, errors.New("bind: permission denied"))

	code, _, stderr := run(t, "start", "-c", path)

	assert.Equal(t, bootstrap.ExitFailure, code)
	assert.NotContains(t, stderr, "Error:", "failure is reported once, through the logger")
}

func TestVerbosityFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	touch(t, path)

	tests := []struct {
		args []string
		want logger.Level
	}{
		{nil, logger.InfoLevel},
		{[]string{"-v"}, logger.DebugLevel},
		{[]string{"-vv"}, logger.TraceLevel},
		{[]string{"-q"}, logger.WarnLevel},
		{[]string{"-qqqq"}, logger.OffLevel},
		{[]string{"--log-level", "error"}, logger.ErrorLevel},
		{[]string{"--log-level", "trace", "-qq"}, logger.TraceLevel},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.args), func(t *testing.T) {
			starter := setupStarter(t, nil)

			code, _, stderr := run(t, append([]string{"start", "-c", path}, tt.args...)...)

			require.Equal(t, bootstrap.ExitOK, code, stderr)
			require.Len(t, starter.calls, 1)
			assert.Equal(t, tt.want, starter.calls[0].Verbosity)
		})
	}
}

func TestInvalidLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	touch(t, path)
	starter := setupStarter(t, nil)

	code, _, stderr := run(t, "start", "-c", path, "--log-level", "chatty")

	assert.Equal(t, bootstrap.ExitUsage, code)
	assert.Contains(t, stderr, "invalid log level")
	assert.Empty(t, starter.calls)
}

func TestUsageErrors(t *testing.T) {
	starter := setupStarter(t, nil)

	for _, args := range [][]string{
		{},
		{"stop"},
		{"start", "--bogus"},
		{"start", "extra"},
	} {
		code, _, _ := run(t, args...)
		assert.Equal(t, bootstrap.ExitUsage, code, "args %v", args)
	}
	assert.Empty(t, starter.calls)
}
