// Package config provides configuration structures and loading for gurtdns.
package config

import "time"

// Config is the main configuration structure for gurtdns.
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Database  DatabaseConfig  `toml:"database" yaml:"database"`
	Scheduler SchedulerConfig `toml:"scheduler" yaml:"scheduler"`

	// path is where the configuration was loaded from or will be written to.
	path string
}

// ServerConfig defines the listener of the service.
type ServerConfig struct {
	Address string `toml:"address" yaml:"address"`
	Port    int    `toml:"port" yaml:"port"`

	// DSCP marks the service's packets for QoS (0-63, 0 = best effort).
	DSCP int `toml:"dscp" yaml:"dscp"`

	// Auth protects the admin API with Basic Auth when a username is set.
	Auth AuthConfig `toml:"auth" yaml:"auth"`
}

// AuthConfig contains optional Basic Auth settings for the admin API.
type AuthConfig struct {
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
}

// DatabaseConfig defines the registry database.
type DatabaseConfig struct {
	// URL selects the backend by scheme: postgres://, postgresql:// or sqlite://
	URL            string `toml:"url" yaml:"url"`
	MaxConnections int    `toml:"max_connections" yaml:"max_connections"`
}

// SchedulerConfig defines the periodic maintenance of the registry.
type SchedulerConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Schedule is a cron expression (e.g., "0 * * * *" for every hour)
	Schedule string `toml:"schedule" yaml:"schedule"`
	// PendingRetention is how long a domain may stay pending before it is pruned (e.g., "720h")
	PendingRetention string `toml:"pending_retention" yaml:"pending_retention"`
}

// Path returns the file the configuration is bound to.
func (c *Config) Path() string {
	return c.path
}

// SetPath binds the configuration to a file path and returns c for chaining.
func (c *Config) SetPath(path string) *Config {
	c.path = path
	return c
}

// Retention parses PendingRetention. Validate guarantees it succeeds on loaded configs.
func (s SchedulerConfig) Retention() (time.Duration, error) {
	return time.ParseDuration(s.PendingRetention)
}
