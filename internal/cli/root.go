// Package cli implements the digitbench command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the digitbench command tree.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "digitbench",
		Short: "Compare digit classifiers on MNIST",
		Long: `Trains a fixed set of neural network architectures on MNIST and reports,
for each one, its parameter count, multiply count and best test accuracy.
Use 'run --help' for benchmark options.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./digitbench.yaml)")

	rootCmd.AddCommand(
		newRunCmd(&cfgFile),
		newModelsCmd(&cfgFile),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
