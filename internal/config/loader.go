package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Supported database backends, selected by the scheme of the database URL.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Exists reports whether a regular file exists at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Load reads and parses the configuration file at path.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse config file %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.SetPath(path)

	// Apply defaults for missing values
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database url is required (set database.url in %s)", cfg.displayPath())
	}
	if cfg.Database.Backend() == "" {
		return fmt.Errorf("unsupported database url %q (must start with postgres://, postgresql:// or sqlite://)", cfg.Database.URL)
	}
	if cfg.Database.MaxConnections < 1 {
		return fmt.Errorf("database max_connections must be at least 1, got %d", cfg.Database.MaxConnections)
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 0 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.DSCP < 0 || cfg.Server.DSCP > 63 {
		return fmt.Errorf("server dscp must be between 0 and 63, got %d", cfg.Server.DSCP)
	}
	if ip := net.ParseIP(cfg.Server.Address); ip == nil && cfg.Server.Address != "localhost" {
		return fmt.Errorf("invalid server address %q", cfg.Server.Address)
	}
	if cfg.Server.Auth.Username != "" && cfg.Server.Auth.Password == "" {
		return fmt.Errorf("server auth password is required when a username is set")
	}

	retention, err := cfg.Scheduler.Retention()
	if err != nil {
		return fmt.Errorf("invalid scheduler pending_retention %q: %w", cfg.Scheduler.PendingRetention, err)
	}
	if retention <= 0 {
		return fmt.Errorf("scheduler pending_retention must be positive, got %s", retention)
	}
	if cfg.Scheduler.Enabled {
		if _, err := cron.ParseStandard(cfg.Scheduler.Schedule); err != nil {
			return fmt.Errorf("invalid scheduler schedule %q: %w", cfg.Scheduler.Schedule, err)
		}
	}

	return nil
}

// Backend returns the storage backend named by the URL scheme, or "" if unsupported.
func (d DatabaseConfig) Backend() string {
	switch {
	case strings.HasPrefix(d.URL, "postgres://"), strings.HasPrefix(d.URL, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(d.URL, "sqlite://"):
		return BackendSQLite
	default:
		return ""
	}
}

// SQLitePath returns the database file of a sqlite:// URL.
func (d DatabaseConfig) SQLitePath() string {
	return strings.TrimPrefix(d.URL, "sqlite://")
}

// Listen returns the host:port the service binds to.
func (s ServerConfig) Listen() string {
	return net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}

// Write serializes the configuration as TOML to its bound path,
// creating the parent directory if needed.
func (c *Config) Write() error {
	return c.writeFile(os.O_TRUNC)
}

// Create writes the configuration like Write but fails with an error
// wrapping fs.ErrExist when something already exists at the path.
func (c *Config) Create() error {
	return c.writeFile(os.O_EXCL)
}

func (c *Config) writeFile(mode int) error {
	path := c.displayPath()

	data, err := c.TOML()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|mode, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// TOML renders the configuration in its on-disk format.
func (c *Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) displayPath() string {
	if c.path == "" {
		return DefaultPath
	}
	return c.path
}
