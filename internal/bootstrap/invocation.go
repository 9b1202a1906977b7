package bootstrap

import (
	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/logger"
)

// Command is the subcommand selected on the command line. The set of
// commands is closed: only types in this package implement it.
type Command interface {
	command()
	Name() string
}

// Start runs the service until it is terminated.
type Start struct{}

func (Start) command() {}

// Name returns the command-line name of the command.
func (Start) Name() string { return "start" }

// Invocation is the parsed command-line intent of one process.
// It is built once at startup and never modified.
type Invocation struct {
	Command    Command
	Verbosity  logger.Level
	ConfigPath string
}

// NewInvocation returns an Invocation for cmd. An empty configPath selects
// config.DefaultPath.
func NewInvocation(cmd Command, verbosity logger.Level, configPath string) Invocation {
	if configPath == "" {
		configPath = config.DefaultPath
	}
	return Invocation{
		Command:    cmd,
		Verbosity:  verbosity,
		ConfigPath: configPath,
	}
}
