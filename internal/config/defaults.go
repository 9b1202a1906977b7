package config

// Default values for configuration
const (
	DefaultPath             = "config.toml"
	DefaultAddress          = "127.0.0.1"
	DefaultPort             = 4878
	DefaultMaxConnections   = 10
	DefaultSchedule         = "0 * * * *" // Every hour
	DefaultPendingRetention = "720h"
)

// Default creates a new Config with all default values applied. The database
// URL is left empty: the operator has to provide one before the service starts.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: DefaultAddress,
			Port:    DefaultPort,
		},
		Database: DatabaseConfig{
			MaxConnections: DefaultMaxConnections,
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			Schedule:         DefaultSchedule,
			PendingRetention: DefaultPendingRetention,
		},
		path: DefaultPath,
	}
}

// ApplyDefaults fills in default values for any unset configuration options.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultAddress
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Database.MaxConnections == 0 {
		cfg.Database.MaxConnections = DefaultMaxConnections
	}
	if cfg.Scheduler.Schedule == "" {
		cfg.Scheduler.Schedule = DefaultSchedule
	}
	if cfg.Scheduler.PendingRetention == "" {
		cfg.Scheduler.PendingRetention = DefaultPendingRetention
	}
}
