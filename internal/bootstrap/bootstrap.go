// Package bootstrap turns a parsed invocation into a running service.
//
// Run builds the logger, makes sure a configuration file exists, and
// dispatches the selected command. The server is never started unless a
// configuration file was present at the moment of the check.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/logger"
)

// Starter runs the service. Start blocks for the life of the service and
// returns nil when it was shut down cleanly.
type Starter interface {
	Start(ctx context.Context, inv Invocation, log *zap.Logger) error
}

// StarterFunc adapts a function to the Starter interface.
type StarterFunc func(ctx context.Context, inv Invocation, log *zap.Logger) error

// Start calls f.
func (f StarterFunc) Start(ctx context.Context, inv Invocation, log *zap.Logger) error {
	return f(ctx, inv, log)
}

// Options holds the collaborators of Run.
type Options struct {
	Starter Starter
	// NewLogger builds the process logger. Defaults to logger.New with the
	// output format picked by logger.IsDevelopment.
	NewLogger func(level logger.Level) (*zap.Logger, error)
}

func (o Options) newLogger(level logger.Level) (*zap.Logger, error) {
	if o.NewLogger != nil {
		return o.NewLogger(level)
	}
	return logger.New(level, logger.IsDevelopment())
}

// Run executes inv. The returned error, if any, is an *ExitError whose code
// the caller should exit with.
func Run(ctx context.Context, inv Invocation, opts Options) error {
	if inv.Command == nil {
		return Fail(ExitUsage, fmt.Errorf("no command selected"))
	}

	log, err := opts.newLogger(inv.Verbosity)
	if err != nil {
		return Fail(ExitFailure, fmt.Errorf("failed to initialize logger: %w", err))
	}
	defer func() { _ = log.Sync() }()

	outcome, err := config.Ensure(inv.ConfigPath)
	if err != nil {
		log.Error("Failed to prepare configuration", zap.String("path", inv.ConfigPath), zap.Error(err))
		return &ExitError{Code: ExitFailure, Err: err, Logged: true}
	}
	if outcome.Status == config.StatusWroteDefault {
		log.Warn("Written initial config, please configure database URL",
			zap.String("path", outcome.Path),
		)
		return &ExitError{Code: ExitConfigWritten, Err: ErrConfigWritten, Logged: true}
	}

	log.Debug("Configuration found",
		zap.String("path", outcome.Path),
		zap.String("command", inv.Command.Name()),
		zap.Stringer("verbosity", inv.Verbosity),
	)

	return dispatch(ctx, inv, opts, log)
}

func dispatch(ctx context.Context, inv Invocation, opts Options, log *zap.Logger) error {
	switch inv.Command.(type) {
	case Start:
		if opts.Starter == nil {
			return Fail(ExitFailure, fmt.Errorf("no server configured"))
		}
		if err := opts.Starter.Start(ctx, inv, log); err != nil {
			log.Error("Failed to start server", zap.Error(err))
			return &ExitError{Code: ExitFailure, Err: err, Logged: true}
		}
		return nil
	default:
		return Fail(ExitUsage, fmt.Errorf("unsupported command %T", inv.Command))
	}
}
