package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/iris/display"
	"github.com/teranos/iris/logger"
	"github.com/teranos/iris/pipeline"
	"github.com/teranos/iris/report"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Train and evaluate the k-nearest-neighbours classifier",
	Long: `Load the iris dataset, split it into training and test subsets, fit a
k-nearest-neighbours classifier on the training subset and report its accuracy
and per-class precision, recall and F1 on the test subset.

The report goes to stdout; progress and logs go to stderr.

Examples:
  iris run                          # Reference run: k=5, stratified 80/20, seed 42
  iris run -k 7 --seed 1            # Different neighbour count and split
  iris run --random                 # Random split (the seed is printed)
  iris run --search vptree          # Vantage-point tree neighbour search
  iris run --dataset flowers.csv    # Use a CSV file instead of the bundled data
  iris run --json                   # Full result as JSON`,
	Args: cobra.NoArgs,
	RunE: RunPipeline,
}

func init() {
	addModelFlags(RunCmd)
	RunCmd.Flags().BoolVar(&noSamples, "no-samples", false, "Skip the sample predictions section")
}

// RunPipeline runs the classification pipeline and prints the report
func RunPipeline(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, verbosity); err != nil {
		return err
	}
	defer logger.Cleanup()

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	useJSON := display.ShouldOutputJSON(cmd)
	emitter := newEmitter(cmd.ErrOrStderr(), useJSON, verbosity)
	runner := pipeline.NewRunner(opts, emitter, verbosity, logger.ComponentLogger("pipeline"))

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	if !logger.ShouldOutput(verbosity, logger.OutputResults) {
		return nil
	}
	if useJSON {
		return display.OutputJSON(cmd.OutOrStdout(), result)
	}
	return report.WriteText(cmd.OutOrStdout(), result, report.Options{
		Digits:      cfg.Report.Digits,
		ShowSamples: cfg.Report.SamplePredictions,
		Verbosity:   verbosity,
	})
}
