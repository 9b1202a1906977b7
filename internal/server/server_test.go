package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/bootstrap"
	"github.com/lan-dot-party/gurtdns/internal/logger"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func testServer(ready chan<- string) *Server {
	s := New()
	s.listen = func(ctx context.Context, network, _ string) (net.Listener, error) {
		var lc net.ListenConfig
		return lc.Listen(ctx, network, "127.0.0.1:0")
	}
	s.ready = ready
	return s
}

func TestStartServesUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, fmt.Sprintf(`
[database]
url = "sqlite://%s"

[scheduler]
enabled = true
schedule = "0 3 * * *"
`, filepath.Join(dir, "registry.db")))

	ready := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		inv := bootstrap.NewInvocation(bootstrap.Start{}, logger.InfoLevel, path)
		done <- testServer(ready).Start(ctx, inv, zap.NewNop())
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"database":"ok"`)

	resp, err = http.Get("http://" + addr + "/api/v1/stats")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"maintenance":{"enabled":true,"running":true,"schedule":"0 3 * * *"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[database]\nurl = \"\"\n")

	inv := bootstrap.NewInvocation(bootstrap.Start{}, logger.InfoLevel, path)
	err := testServer(nil).Start(context.Background(), inv, nil)

	assert.ErrorContains(t, err, "database url is required")
}

func TestStartReportsListenFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, fmt.Sprintf("[database]\nurl = \"sqlite://%s\"\n", filepath.Join(dir, "registry.db")))

	s := New()
	s.listen = func(context.Context, string, string) (net.Listener, error) {
		return nil, fmt.Errorf("address already in use")
	}

	inv := bootstrap.NewInvocation(bootstrap.Start{}, logger.InfoLevel, path)
	err := s.Start(context.Background(), inv, zap.NewNop())

	assert.ErrorContains(t, err, "failed to listen")
}
