package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/iris/config"
	"github.com/teranos/iris/errors"
	"github.com/teranos/iris/logger"
	"github.com/teranos/iris/progress"
)

// Flags shared by run, predict and the root command
var (
	neighbors     int
	trainRatio    float64
	seed          int64
	randomSplit   bool
	noStratify    bool
	noStandardize bool
	search        string
	datasetSource string
	noSamples     bool
)

// addModelFlags registers the flags that shape the fitted model
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&neighbors, "neighbors", "k", config.DefaultK, "Number of neighbours that vote")
	cmd.Flags().Float64Var(&trainRatio, "train-ratio", config.DefaultTrainRatio, "Fraction of samples used for training, in (0, 1)")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "Seed for the train/test shuffle")
	cmd.Flags().BoolVar(&randomSplit, "random", false, "Draw the split seed from the clock (reported in the output)")
	cmd.Flags().BoolVar(&noStratify, "no-stratify", false, "Shuffle all samples together instead of per class")
	cmd.Flags().BoolVar(&noStandardize, "no-standardize", false, "Use raw measurements instead of standardised features")
	cmd.Flags().StringVar(&search, "search", config.DefaultSearch, "Neighbour search: brute or vptree")
	cmd.Flags().StringVar(&datasetSource, "dataset", config.DefaultSource, `Dataset: "bundled" or a CSV file path`)
}

// loadConfig reads the configuration cascade (or the --config file) and
// applies the flags the user actually set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		loaded *config.Config
		err    error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err = config.LoadFromFile(path)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	// Work on a copy: Load caches its result
	cfg := *loaded
	flags := cmd.Flags()
	if flags.Changed("neighbors") {
		cfg.Model.K = neighbors
	}
	if flags.Changed("train-ratio") {
		cfg.Split.TrainRatio = trainRatio
	}
	if flags.Changed("seed") {
		s := seed
		cfg.Split.Seed = &s
		cfg.Split.Random = false
	}
	if flags.Changed("random") {
		cfg.Split.Random = randomSplit
	}
	if flags.Changed("no-stratify") {
		cfg.Split.Stratify = !noStratify
	}
	if flags.Changed("no-standardize") {
		cfg.Preprocess.Standardize = !noStandardize
	}
	if flags.Changed("search") {
		cfg.Model.Search = search
	}
	if flags.Changed("dataset") {
		cfg.Dataset.Source = datasetSource
	}
	if flags.Changed("no-samples") {
		cfg.Report.SamplePredictions = !noSamples
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setupLogging applies the configured log format and theme
func setupLogging(cfg *config.Config, verbosity int) error {
	if cfg.Log.Theme != "" {
		logger.SetTheme(cfg.Log.Theme)
	}
	if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

// newEmitter picks the progress emitter for stderr. JSON runs only emit
// progress events when asked for with -v, so stdout stays a single document.
func newEmitter(w io.Writer, useJSON bool, verbosity int) progress.Emitter {
	if useJSON {
		if logger.ShouldOutput(verbosity, logger.OutputProgress) {
			return progress.NewJSONEmitter(w)
		}
		return progress.Nop()
	}
	return progress.NewCLIEmitter(w, verbosity)
}
