package commands

import (
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/display"
	"github.com/teranos/iris/errors"
	"github.com/teranos/iris/logger"
	"github.com/teranos/iris/pipeline"
	"github.com/teranos/iris/report"
)

// PredictCmd represents the predict command
var PredictCmd = &cobra.Command{
	Use:   "predict <sepal-length> <sepal-width> <petal-length> <petal-width> [...]",
	Short: "Classify flower measurements",
	Long: `Fit the classifier exactly as "iris run" does, then classify the given
measurements. Pass four values (in cm) per flower; several flowers may be given
in one call.

Examples:
  iris predict 5.1 3.5 1.4 0.2                      # One flower
  iris predict 5.1 3.5 1.4 0.2 7.2 3.2 6.0 1.8      # Two flowers
  iris predict --json 6.5 2.8 4.6 1.5               # Include neighbours as JSON`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%dataset.NumFeatures != 0 {
			return errors.WithHint(
				errors.NewInvalidRequestError("expected a multiple of %d measurements, got %d", dataset.NumFeatures, len(args)),
				"order: sepal length, sepal width, petal length, petal width")
		}
		return nil
	},
	RunE: runPredict,
}

func init() {
	addModelFlags(PredictCmd)
}

// parseMeasurements groups args into feature vectors
func parseMeasurements(args []string) ([][dataset.NumFeatures]float64, error) {
	flowers := make([][dataset.NumFeatures]float64, len(args)/dataset.NumFeatures)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, errors.WrapInvalidRequest(err, "parse measurement "+strconv.Quote(arg))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewInvalidRequestError("measurement %q is not a finite number", arg)
		}
		flowers[i/dataset.NumFeatures][i%dataset.NumFeatures] = v
	}
	return flowers, nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	flowers, err := parseMeasurements(args)
	if err != nil {
		return err
	}

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
	log := logger.ComponentLogger("predict")
	classifier, err := pipeline.NewRunner(opts, emitter, verbosity, log).Fit(cmd.Context())
	if err != nil {
		return err
	}

	predictions := make([]pipeline.SamplePrediction, 0, len(flowers))
	for _, features := range flowers {
		predicted, neighbors, err := classifier.Predict(features)
		if err != nil {
			return err
		}
		log.Debugw("Flower classified",
			logger.FieldFeatures, features,
			logger.FieldPredicted, predicted.String(),
			logger.FieldDistance, neighbors[0].Distance)
		predictions = append(predictions, pipeline.SamplePrediction{
			Features:  features,
			Predicted: predicted,
			Neighbors: neighbors,
		})
	}

	if useJSON {
		return display.OutputJSON(cmd.OutOrStdout(), predictions)
	}
	return report.WritePredictions(cmd.OutOrStdout(), predictions)
}
