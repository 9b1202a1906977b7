package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-dot-party/gurtdns/internal/bootstrap"
	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/storage"
)

func writeValidConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("[database]\nurl = \"sqlite://%s\"\n", filepath.Join(dir, "registry.db"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// initRegistry creates the registry database named by the config at path.
func initRegistry(t *testing.T, path string) {
	t.Helper()
	cfg, err := config.Load(path)
	require.NoError(t, err)
	store, err := storage.NewStorage(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, store.Init(context.Background()))
	require.NoError(t, store.Close())
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	code, stdout, _ := run(t, "config", "init", "-c", path)
	assert.Equal(t, bootstrap.ExitOK, code)
	assert.Contains(t, stdout, "Wrote default configuration")
	assert.FileExists(t, path)

	code, _, stderr := run(t, "config", "init", "-c", path)
	assert.Equal(t, bootstrap.ExitFailure, code)
	assert.Contains(t, stderr, "already exists")

	code, _, _ = run(t, "config", "init", "-c", path, "--force")
	assert.Equal(t, bootstrap.ExitOK, code)
}

func TestConfigValidate(t *testing.T) {
	code, stdout, stderr := run(t, "config", "validate", "-c", writeValidConfig(t))
	assert.Equal(t, bootstrap.ExitOK, code, stderr)
	assert.Contains(t, stdout, "Configuration is valid")
	assert.Contains(t, stdout, "sqlite")

	path := filepath.Join(t.TempDir(), "config.toml")
	run(t, "config", "init", "-c", path)
	code, _, stderr = run(t, "config", "validate", "-c", path)
	assert.Equal(t, bootstrap.ExitFailure, code)
	assert.Contains(t, stderr, "database url is required")
}

func TestConfigShow(t *testing.T) {
	path := writeValidConfig(t)

	code, stdout, _ := run(t, "config", "show", "-c", path)
	assert.Equal(t, bootstrap.ExitOK, code)
	assert.Contains(t, stdout, "[database]")

	code, stdout, _ = run(t, "config", "show", "-c", path, "--format", "yaml")
	assert.Equal(t, bootstrap.ExitOK, code)
	assert.Contains(t, stdout, "database:")

	code, _, _ = run(t, "config", "show", "-c", path, "--format", "ini")
	assert.Equal(t, bootstrap.ExitUsage, code)
}

func TestDomains(t *testing.T) {
	path := writeValidConfig(t)
	initRegistry(t, path)

	code, stdout, stderr := run(t, "domains", "-c", path)
	assert.Equal(t, bootstrap.ExitOK, code, stderr)
	assert.Contains(t, stdout, "No domains found.")

	code, stdout, _ = run(t, "domains", "-c", path, "--json")
	assert.Equal(t, bootstrap.ExitOK, code)
	assert.Contains(t, stdout, "[]")

	code, stdout, _ = run(t, "domains", "-c", path, "--stats")
	assert.Equal(t, bootstrap.ExitOK, code)
	assert.Contains(t, stdout, "pending:")
}

func TestDomainsDoesNotCreateDatabase(t *testing.T) {
	path := writeValidConfig(t)
	dbPath := filepath.Join(filepath.Dir(path), "registry.db")

	code, _, stderr := run(t, "domains", "-c", path)
	assert.Equal(t, bootstrap.ExitFailure, code)
	assert.Contains(t, stderr, "registry database does not exist")
	assert.NoFileExists(t, dbPath)
}

func TestDomainsRejectsBadFlagsBeforeOpening(t *testing.T) {
	path := writeValidConfig(t)
	dbPath := filepath.Join(filepath.Dir(path), "registry.db")

	for _, args := range [][]string{
		{"--status", "lost"},
		{"--since", "yesterday"},
		{"--limit=-1"},
	} {
		code, _, stderr := run(t, append([]string{"domains", "-c", path}, args...)...)
		assert.Equal(t, bootstrap.ExitUsage, code, "args %v", args)
		assert.Contains(t, stderr, "invalid", "args %v", args)
	}
	assert.NoFileExists(t, dbPath)
}
