// Package report renders a pipeline result as the fixed-format text summary.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/teranos/iris/dataset"
	"github.com/teranos/iris/evaluate"
	"github.com/teranos/iris/logger"
	"github.com/teranos/iris/pipeline"
)

const (
	bannerWidth = 50
	// labelWidth fits the longest row label, "weighted avg"
	labelWidth = 12
)

// DefaultDigits is the precision of the classification table
const DefaultDigits = 2

// Options controls the text rendering
type Options struct {
	Digits      int  // decimals for precision, recall and F1
	ShowSamples bool // include the sample predictions section
	Verbosity   int  // -v count; at -vv the search, scaling and verbosity lines are added
}

// DefaultOptions renders like the reference program
func DefaultOptions() Options {
	return Options{Digits: DefaultDigits, ShowSamples: true}
}

type writer struct {
	w   io.Writer
	err error
}

func (p *writer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *writer) banner(lines ...string) {
	rule := strings.Repeat("=", bannerWidth)
	p.printf("%s\n", rule)
	for _, l := range lines {
		p.printf("%s\n", l)
	}
	p.printf("%s\n", rule)
}

// WriteText writes the full run summary
func WriteText(w io.Writer, r *pipeline.Result, opts Options) error {
	p := &writer{w: w}

	p.banner("IRIS FLOWER CLASSIFICATION", fmt.Sprintf("k-nearest neighbours (k=%d)", r.Model.K))
	p.printf("Dataset: %s (%d samples, %d features)\n", datasetName(r.Dataset.Source), r.Dataset.Samples, r.Dataset.Features)
	p.printf("Features: %s\n", strings.Join(r.Dataset.FeatureNames, ", "))
	p.printf("Classes: %s\n", joinSpecies(r.Dataset.Classes))
	p.printf("Training samples: %d\n", r.Split.Train)
	p.printf("Testing samples: %d\n", r.Split.Test)
	p.printf("Seed: %d\n", r.Split.Seed)
	if logger.ShouldOutput(opts.Verbosity, logger.OutputConfig) {
		p.printf("Search: %s\n", r.Model.Search)
		p.printf("Standardized: %t\n", r.Model.Standardized)
		p.printf("Verbosity: %s\n", logger.LevelName(opts.Verbosity))
	}

	p.printf("\n")
	p.banner("MODEL EVALUATION")
	p.printf("\nAccuracy: %.2f%%\n", r.Evaluation.Accuracy*100)
	p.printf("\nClassification Report:\n")
	if p.err == nil {
		p.err = WriteClassificationReport(w, r.Evaluation, opts.Digits)
	}
	p.printf("\n")

	if opts.ShowSamples && len(r.Samples) > 0 {
		p.printf("\n")
		p.banner("SAMPLE PREDICTIONS")
		for i, s := range r.Samples {
			p.printf("\nSample %d: %s\n", i+1, formatFeatures(s.Features))
			p.printf("Predicted class: %s\n", s.Predicted)
		}
	}

	p.printf("\n")
	p.banner("PROGRAM COMPLETED SUCCESSFULLY")
	return p.err
}

// WriteClassificationReport writes the per-class table followed by the
// accuracy, macro average and weighted average rows
func WriteClassificationReport(w io.Writer, r *evaluate.Report, digits int) error {
	p := &writer{w: w}

	p.printf("%*s ", labelWidth, "")
	for _, h := range []string{"precision", "recall", "f1-score", "support"} {
		p.printf(" %9s", h)
	}
	p.printf("\n\n")

	row := func(label string, precision, recall, f1 float64, support int) {
		p.printf("%*s  %9.*f %9.*f %9.*f %9d\n", labelWidth, label,
			digits, precision, digits, recall, digits, f1, support)
	}
	for _, cm := range r.Classes {
		row(cm.Species.String(), cm.Precision, cm.Recall, cm.F1, cm.Support)
	}
	p.printf("\n")

	p.printf("%*s  %9s %9s %9.*f %9d\n", labelWidth, "accuracy", "", "", digits, r.Accuracy, r.Total)
	row("macro avg", r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.MacroAvg.Support)
	row("weighted avg", r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.WeightedAvg.Support)
	return p.err
}

// WritePredictions writes one line per classified flower
func WritePredictions(w io.Writer, samples []pipeline.SamplePrediction) error {
	p := &writer{w: w}
	for _, s := range samples {
		p.printf("%s -> %s\n", formatFeatures(s.Features), s.Predicted)
	}
	return p.err
}

func datasetName(source string) string {
	if source == dataset.BundledSource {
		return "bundled iris"
	}
	return source
}

func joinSpecies(species []dataset.Species) string {
	names := make([]string, len(species))
	for i, sp := range species {
		names[i] = sp.String()
	}
	return strings.Join(names, ", ")
}

// formatFeatures prints measurements like [5.1, 3.5, 1.4, 0.2]
func formatFeatures(f [dataset.NumFeatures]float64) string {
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(parts[i], ".") {
			parts[i] += ".0"
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
