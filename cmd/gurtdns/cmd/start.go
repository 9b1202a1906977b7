package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lan-dot-party/gurtdns/internal/bootstrap"
	"github.com/lan-dot-party/gurtdns/internal/server"
)

// newStarter builds the service run loop. Replaced in tests.
var newStarter = func() bootstrap.Starter {
	return server.New()
}

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the service",
	Long: `Start gurtdns and run until interrupted.

If no configuration file exists at the config path, a default one is
written and the command exits with status 1 without starting anything.

Examples:
  gurtdns start
  gurtdns start -c /etc/gurtdns/config.toml -vv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := newInvocation(bootstrap.Start{})
		if err != nil {
			return err
		}
		return bootstrap.Run(cmd.Context(), inv, bootstrap.Options{Starter: newStarter()})
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
