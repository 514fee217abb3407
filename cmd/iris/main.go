package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/iris/cmd/iris/commands"
	"github.com/teranos/iris/errors"
	"github.com/teranos/iris/logger"
)

var rootCmd = &cobra.Command{
	Use:   "iris",
	Short: "iris - k-nearest-neighbours classification of the iris dataset",
	Long: `iris - k-nearest-neighbours classification of the iris dataset.

Run without a subcommand, iris performs the reference experiment: load the
150-sample iris dataset, split it 80/20 (stratified, seed 42), standardise the
features, fit a k=5 nearest-neighbours classifier and print its evaluation
followed by predictions for three sample flowers.

Available commands:
  run      - Train and evaluate the classifier (the default)
  predict  - Classify flower measurements
  config   - Inspect configuration
  version  - Show version information

Examples:
  iris                        # Reference run
  iris -k 3 --seed 7          # Reference run with other parameters
  iris predict 6.1 2.8 4.7 1.2
  iris config where           # Show where settings come from`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize global logger before any command runs; run and predict
		// re-initialize once the configured log format is known
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(false, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	RunE: commands.RunPipeline,
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("config", "", "Read configuration from this TOML file instead of the cascade")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON instead of text")

	// The bare command accepts every run flag
	rootCmd.Flags().AddFlagSet(commands.RunCmd.Flags())

	// Add commands
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.PredictCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hints)
		}
		os.Exit(1)
	}
}
