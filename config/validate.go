package config

import (
	"slices"

	"github.com/teranos/iris/errors"
)

// Validate checks that the configuration can produce a run. Checks that depend
// on the data (k against the training size, empty split sides) happen in the
// split and knn packages.
func (c *Config) Validate() error {
	// Both 0 and 1 would leave one side of the split empty
	if !(c.Split.TrainRatio > 0 && c.Split.TrainRatio < 1) {
		return errors.WithHint(
			errors.NewConfigError("split.train_ratio must be in (0, 1), got %v", c.Split.TrainRatio),
			"use a value such as 0.8 (80% train / 20% test)")
	}

	if c.Model.K < 1 {
		return errors.NewConfigError("model.k must be >= 1, got %d", c.Model.K)
	}

	if !slices.Contains(SearchStrategies, c.GetSearch()) {
		return errors.WithHintf(
			errors.NewConfigError("model.search %q is not supported", c.Model.Search),
			"supported strategies: %v", SearchStrategies)
	}

	if c.Report.Digits < 0 || c.Report.Digits > 10 {
		return errors.NewConfigError("report.digits must be between 0 and 10, got %d", c.Report.Digits)
	}

	switch c.Log.Theme {
	case "", "everforest", "gruvbox", "none":
	default:
		return errors.NewConfigError("log.theme %q is not supported (everforest, gruvbox, none)", c.Log.Theme)
	}

	return nil
}
