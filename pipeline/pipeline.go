// Package pipeline runs the iris classification end to end:
// load → split → standardise → fit → evaluate → sample predictions.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/iris/config"
	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/errors"
	"github.com/teranos/iris/evaluate"
	"github.com/teranos/iris/knn"
	"github.com/teranos/iris/logger"
	"github.com/teranos/iris/preprocess"
	"github.com/teranos/iris/progress"
	"github.com/teranos/iris/split"
)

// Stage names used in progress events and logs
const (
	StageLoad     = "load"
	StageSplit    = "split"
	StageScale    = "standardize"
	StageFit      = "fit"
	StageEvaluate = "evaluate"
	StageSamples  = "samples"
)

// SampleFlowers are typical measurements of setosa, versicolor and virginica
var SampleFlowers = [][dataset.NumFeatures]float64{
	{5.1, 3.5, 1.4, 0.2},
	{6.5, 2.8, 4.6, 1.5},
	{7.2, 3.2, 6.0, 1.8},
}

// Options configures a Runner
type Options struct {
	Source      string
	Split       split.Options
	Standardize bool
	K           int
	Search      knn.Strategy
	Samples     [][dataset.NumFeatures]float64 // measurements classified after evaluation
}

// DefaultOptions returns the reference run: bundled data, stratified 80/20
// split with seed 42, standardised features, k=5
func DefaultOptions() Options {
	seed := config.DefaultSeed
	return Options{
		Source: dataset.BundledSource,
		Split: split.Options{
			TrainRatio: split.DefaultTrainRatio,
			Seed:       &seed,
			Stratify:   true,
		},
		Standardize: true,
		K:           knn.DefaultK,
		Search:      knn.SearchBrute,
		Samples:     SampleFlowers,
	}
}

// OptionsFromConfig maps a validated configuration onto runner options
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	search, err := knn.ParseStrategy(cfg.GetSearch())
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Source: cfg.GetDatasetSource(),
		Split: split.Options{
			TrainRatio: cfg.Split.TrainRatio,
			Seed:       cfg.Split.SeedPtr(),
			Stratify:   cfg.Split.Stratify,
		},
		Standardize: cfg.Preprocess.Standardize,
		K:           cfg.Model.K,
		Search:      search,
	}
	if cfg.Report.SamplePredictions {
		opts.Samples = SampleFlowers
	}
	return opts, nil
}

// Runner executes the pipeline once per Run call
type Runner struct {
	opts      Options
	emitter   progress.Emitter
	verbosity int
	logger    *zap.SugaredLogger
}

// NewRunner creates a runner. A nil emitter or logger discards output.
func NewRunner(opts Options, emitter progress.Emitter, verbosity int, log *zap.SugaredLogger) *Runner {
	if emitter == nil {
		emitter = progress.Nop()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{
		opts:      opts,
		emitter:   emitter,
		verbosity: verbosity,
		logger:    log,
	}
}

// Classifier is a fitted model together with the preprocessing it expects
type Classifier struct {
	Dataset *dataset.Dataset
	Split   *split.Split
	Scaler  *preprocess.Scaler // nil when standardisation is off
	Model   *knn.Model

	train *dataset.Dataset // as seen by the model
	test  *dataset.Dataset
}

// Predict classifies raw measurements
func (c *Classifier) Predict(features [dataset.NumFeatures]float64) (dataset.Species, []knn.Neighbor, error) {
	if c.Scaler != nil {
		features = c.Scaler.Transform(features)
	}
	neighbors, err := c.Model.Neighbors(features)
	if err != nil {
		return -1, nil, err
	}
	return knn.Vote(neighbors), neighbors, nil
}

// Fit loads the data, splits it and fits the scaler and model on the
// training subset
func (r *Runner) Fit(ctx context.Context) (*Classifier, error) {
	log := r.logger.With(logger.FieldsFromContext(ctx)...)

	r.emitter.EmitStage(StageLoad, "loading dataset")
	start := time.Now()
	ds, err := dataset.Load(r.opts.Source)
	if err != nil {
		r.emitter.EmitError(StageLoad, err)
		return nil, err
	}
	r.emitter.EmitProgress(ds.Len(), map[string]interface{}{"type": "samples"})
	log.Infow("Dataset loaded",
		logger.FieldSource, ds.Source(),
		logger.FieldCount, ds.Len(),
		logger.FieldFeatures, dataset.NumFeatures)
	r.logTiming(log, StageLoad, start)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "interrupted after load")
	}

	r.emitter.EmitStage(StageSplit, "partitioning train/test")
	start = time.Now()
	sp, err := split.Partition(ds, r.opts.Split)
	if err != nil {
		r.emitter.EmitError(StageSplit, err)
		return nil, err
	}
	if r.opts.Split.Seed == nil {
		r.emitter.EmitInfo(fmt.Sprintf("random split seed %d (replay with --seed=%d)", sp.Seed, sp.Seed))
	}
	r.logTiming(log, StageSplit, start)
	log.Infow("Dataset split",
		logger.FieldTrain, sp.Train.Len(),
		logger.FieldTest, sp.Test.Len(),
		logger.FieldTrainRatio, sp.TrainRatio,
		logger.FieldSeed, sp.Seed)
	if logger.ShouldOutput(r.verbosity, logger.OutputSplit) {
		log.Debugw("Split class counts",
			logger.FieldTrain, sp.Train.Counts(),
			logger.FieldTest, sp.Test.Counts())
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "interrupted after split")
	}

	c := &Classifier{Dataset: ds, Split: sp, train: sp.Train, test: sp.Test}
	if r.opts.Standardize {
		r.emitter.EmitStage(StageScale, "fitting scaler on training subset")
		start = time.Now()
		scaler, err := preprocess.FitScaler(sp.Train)
		if err != nil {
			r.emitter.EmitError(StageScale, err)
			return nil, err
		}
		c.Scaler = scaler
		c.train = scaler.TransformDataset(sp.Train)
		c.test = scaler.TransformDataset(sp.Test)
		log.Debugw("Scaler fitted", "mean", scaler.Mean, "std", scaler.Std)
		r.logTiming(log, StageScale, start)
	}

	r.emitter.EmitStage(StageFit, "fitting k-nearest neighbours")
	start = time.Now()
	model, err := knn.Fit(c.train, r.opts.K, knn.WithSearch(r.opts.Search))
	if err != nil {
		r.emitter.EmitError(StageFit, err)
		return nil, err
	}
	c.Model = model
	log.Infow("Model fitted",
		logger.FieldK, model.K(),
		logger.FieldSearch, string(model.Strategy()),
		logger.FieldTrain, model.TrainingSize())
	r.logTiming(log, StageFit, start)

	return c, nil
}

// logTiming records a stage duration at -vv
func (r *Runner) logTiming(log *zap.SugaredLogger, stage string, start time.Time) {
	if !logger.ShouldOutput(r.verbosity, logger.OutputTiming) {
		return
	}
	log.Debugw("Stage finished",
		logger.FieldStage, stage,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
}

// Run executes the whole pipeline and returns its result
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := r.logger.With(logger.FieldsFromContext(ctx)...)

	result := &Result{
		RunID:     runID,
		StartTime: time.Now(),
	}

	c, err := r.Fit(ctx)
	if err != nil {
		return nil, err
	}
	result.fill(c)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "interrupted after fit")
	}

	r.emitter.EmitStage(StageEvaluate, "predicting test subset")
	start := time.Now()
	report, err := evaluate.Evaluate(c.Model, c.test)
	if err != nil {
		r.emitter.EmitError(StageEvaluate, err)
		return nil, err
	}
	result.Evaluation = report
	r.emitter.EmitProgress(report.Total, map[string]interface{}{"type": "test predictions"})
	log.Infow("Model evaluated",
		logger.FieldAccuracy, report.Accuracy,
		logger.FieldSupport, report.Total)
	r.logTiming(log, StageEvaluate, start)

	if len(r.opts.Samples) > 0 {
		r.emitter.EmitStage(StageSamples, "classifying sample flowers")
		start = time.Now()
		for _, features := range r.opts.Samples {
			predicted, neighbors, err := c.Predict(features)
			if err != nil {
				r.emitter.EmitError(StageSamples, err)
				return nil, err
			}
			result.Samples = append(result.Samples, SamplePrediction{
				Features:  features,
				Predicted: predicted,
				Neighbors: neighbors,
			})
			if logger.ShouldOutput(r.verbosity, logger.OutputPredictions) {
				log.Debugw("Sample classified",
					logger.FieldFeatures, features,
					logger.FieldPredicted, predicted.String(),
					logger.FieldDistance, neighbors[0].Distance)
			}
		}
		r.logTiming(log, StageSamples, start)
	}

	result.EndTime = time.Now()
	result.DurationMS = result.EndTime.Sub(result.StartTime).Milliseconds()
	r.emitter.EmitComplete(map[string]interface{}{
		"run_id":   runID,
		"accuracy": report.Accuracy,
		"k":        c.Model.K(),
		"seed":     c.Split.Seed,
	})
	return result, nil
}
