// Package cmd contains all CLI commands for gurtdns.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lan-dot-party/gurtdns/internal/bootstrap"
	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/logger"
	"github.com/lan-dot-party/gurtdns/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	verbose  int
	quiet    int
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gurtdns",
	Short: "gurtdns - domain registry service for the GURT network",
	Long: `gurtdns runs the domain registry of a GURT network.

Run "gurtdns start" to launch the service. On first start a default
config.toml is written and the process exits; fill in the database URL
and start it again.`,
	Version:       version.GetVersion(),
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Usage()
		return bootstrap.Fail(bootstrap.ExitUsage, errors.New("a command is required"))
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stderr)
}

func execute(ctx context.Context, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !bootstrap.IsLogged(err) {
		fmt.Fprintln(stderr, "Error:", unwrapExit(err))
	}
	return bootstrap.ExitCode(err)
}

func unwrapExit(err error) error {
	var exitErr *bootstrap.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Err
	}
	return err
}

// resolveVerbosity picks the log level: an explicit --log-level wins,
// otherwise -v/-q adjust the default of info.
func resolveVerbosity() (logger.Level, error) {
	if logLevel != "" {
		return logger.ParseLevel(logLevel)
	}
	return logger.Resolve(logger.DefaultLevel, verbose, quiet), nil
}

// newInvocation builds the invocation for command from the global flags.
func newInvocation(command bootstrap.Command) (bootstrap.Invocation, error) {
	level, err := resolveVerbosity()
	if err != nil {
		return bootstrap.Invocation{}, bootstrap.Fail(bootstrap.ExitUsage, err)
	}
	return bootstrap.NewInvocation(command, level, cfgFile), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath,
		"config path")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v",
		"increase logging verbosity (repeatable)")
	rootCmd.PersistentFlags().CountVarP(&quiet, "quiet", "q",
		"decrease logging verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"set the log level explicitly: off, error, warn, info, debug, trace")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = cmd.Usage()
		return bootstrap.Fail(bootstrap.ExitUsage, err)
	})

	rootCmd.SetVersionTemplate(`{{printf "gurtdns %s\n" .Version}}`)
}
