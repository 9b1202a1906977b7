package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lan-dot-party/gurtdns/internal/bootstrap"
	"github.com/lan-dot-party/gurtdns/internal/config"
)

var (
	configInitForce  bool
	configShowFormat string
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Commands for managing the gurtdns configuration file.`,
}

// configInitCmd writes a default configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with all defaults to the config path.

Examples:
  gurtdns config init
  gurtdns config init -c /etc/gurtdns/config.toml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Exists(cfgFile) && !configInitForce {
			return bootstrap.Fail(bootstrap.ExitFailure,
				fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile))
		}

		if err := config.Default().SetPath(cfgFile).Write(); err != nil {
			return bootstrap.Fail(bootstrap.ExitFailure, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", cfgFile)
		fmt.Fprintln(cmd.OutOrStdout(), "Set database.url before running \"gurtdns start\".")
		return nil
	},
}

// configValidateCmd validates the configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Check the configuration file for errors.

Examples:
  gurtdns config validate
  gurtdns config validate --config /path/to/config.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return bootstrap.Fail(bootstrap.ExitFailure, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Configuration is valid")
		fmt.Fprintf(out, "   Listen:    %s\n", cfg.Server.Listen())
		fmt.Fprintf(out, "   Database:  %s\n", cfg.Database.Backend())
		fmt.Fprintf(out, "   Scheduler: %s (enabled: %t)\n", cfg.Scheduler.Schedule, cfg.Scheduler.Enabled)

		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Long: `Display the current configuration with all defaults applied.

Examples:
  gurtdns config show
  gurtdns config show --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return bootstrap.Fail(bootstrap.ExitFailure, err)
		}

		var data []byte
		switch configShowFormat {
		case "toml":
			data, err = cfg.TOML()
		case "yaml":
			data, err = cfg.YAML()
		default:
			return bootstrap.Fail(bootstrap.ExitUsage,
				fmt.Errorf("invalid format %q (must be toml or yaml)", configShowFormat))
		}
		if err != nil {
			return bootstrap.Fail(bootstrap.ExitFailure, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# %s (with defaults applied)\n\n", cfg.Path())
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing configuration file")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "toml",
		"output format: toml or yaml")
}
