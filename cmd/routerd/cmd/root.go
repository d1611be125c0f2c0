package cmd

import (
	"github.com/spf13/cobra"

	"github.com/paw-chain/router/app"
)

// Version is set at build time.
var Version = "dev"

// NewRootCmd creates the routerd root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   app.Name,
		Short: "Constant-product exchange router",
		Long: `routerd quotes and executes multi-hop swaps across constant-product pools,
enforcing deadline, slippage, price impact and rate limit guards on every call.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
		},
	}

	app.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		QuoteCmd(),
		SimulateCmd(),
		ServeCmd(),
		ConfigCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration visible to cmd: defaults, the
// --config file, ROUTERD_* variables and flags.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	return app.LoadConfig(cmd.Flags())
}
