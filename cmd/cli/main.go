package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "econsim",
		Short: "Fee/rebate economy simulator",
		Long: `econsim runs discrete-epoch simulations of a fee/rebate economy.

Value locked, value bonded, collected fees and a rebate pool evolve epoch by
epoch, driven by pluggable behavior and policy models chosen in a YAML
scenario file.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (overrides the scenario)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newCompareCmd(),
		newModelsCmd(),
	)
	return rootCmd
}
