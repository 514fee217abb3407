package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across iris.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID = "run_id"
	FieldStage = "stage"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount    = "count"
	FieldFeatures = "features"
	FieldTrain    = "train"
	FieldTest     = "test"
	FieldSupport  = "support"

	// Model and split parameters
	FieldK          = "k"
	FieldSeed       = "seed"
	FieldTrainRatio = "train_ratio"
	FieldSearch     = "search"
	FieldSource     = "source"

	// Results
	FieldAccuracy  = "accuracy"
	FieldPredicted = "predicted"
	FieldDistance  = "distance"
)

// Context keys for propagating logging context
type contextKey string

const runIDKey contextKey = "logger_run_id"

// WithRunID adds a run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for SugaredLogger.With.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}

	return fields
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	runner := pipeline.NewRunner(opts, emitter, verbosity, logger.ComponentLogger("pipeline"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
