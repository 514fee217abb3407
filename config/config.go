// Package config loads and validates iris configuration.
//
// Values cascade from built-in defaults through system, user and project
// TOML files to IRIS_* environment variables; CLI flags are applied on top
// by the commands.
package config

import "fmt"

// Config represents the iris run configuration
type Config struct {
	Dataset    DatasetConfig    `mapstructure:"dataset" json:"dataset" toml:"dataset" yaml:"dataset"`
	Split      SplitConfig      `mapstructure:"split" json:"split" toml:"split" yaml:"split"`
	Preprocess PreprocessConfig `mapstructure:"preprocess" json:"preprocess" toml:"preprocess" yaml:"preprocess"`
	Model      ModelConfig      `mapstructure:"model" json:"model" toml:"model" yaml:"model"`
	Report     ReportConfig     `mapstructure:"report" json:"report" toml:"report" yaml:"report"`
	Log        LogConfig        `mapstructure:"log" json:"log" toml:"log" yaml:"log"`
}

// DatasetConfig selects the dataset source
type DatasetConfig struct {
	Source string `mapstructure:"source" json:"source" toml:"source" yaml:"source"` // "bundled" (default) or a CSV path
}

// SplitConfig configures the train/test partition
type SplitConfig struct {
	TrainRatio float64 `mapstructure:"train_ratio" json:"train_ratio" toml:"train_ratio" yaml:"train_ratio"` // must lie in (0, 1)
	Seed       *int64  `mapstructure:"seed" json:"seed,omitempty" toml:"seed,omitempty" yaml:"seed,omitempty"` // nil = random
	Stratify   bool    `mapstructure:"stratify" json:"stratify" toml:"stratify" yaml:"stratify"`
	Random     bool    `mapstructure:"random" json:"random" toml:"random" yaml:"random"` // ignore seed, draw one from the clock
}

// SeedPtr returns the configured seed, or nil when the split should be random
func (s SplitConfig) SeedPtr() *int64 {
	if s.Random || s.Seed == nil {
		return nil
	}
	seed := *s.Seed
	return &seed
}

// PreprocessConfig configures feature scaling
type PreprocessConfig struct {
	Standardize bool `mapstructure:"standardize" json:"standardize" toml:"standardize" yaml:"standardize"`
}

// ModelConfig configures the classifier
type ModelConfig struct {
	K      int    `mapstructure:"k" json:"k" toml:"k" yaml:"k"`
	Search string `mapstructure:"search" json:"search" toml:"search" yaml:"search"` // brute, vptree
}

// ReportConfig configures the printed report
type ReportConfig struct {
	Digits            int  `mapstructure:"digits" json:"digits" toml:"digits" yaml:"digits"`
	SamplePredictions bool `mapstructure:"sample_predictions" json:"sample_predictions" toml:"sample_predictions" yaml:"sample_predictions"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" json:"json" toml:"json" yaml:"json"`
	Theme string `mapstructure:"theme" json:"theme" toml:"theme" yaml:"theme"` // everforest, gruvbox, none
}

// Defaults
const (
	DefaultSource     = "bundled"
	DefaultTrainRatio = 0.8
	DefaultSeed       = int64(42)
	DefaultK          = 5
	DefaultSearch     = "brute"
	DefaultDigits     = 2
	DefaultLogTheme   = "everforest"
)

// Search strategies accepted by model.search
var SearchStrategies = []string{"brute", "vptree"}

// GetDatasetSource returns the dataset source (default: bundled)
func (c *Config) GetDatasetSource() string {
	if c.Dataset.Source == "" {
		return DefaultSource
	}
	return c.Dataset.Source
}

// GetSearch returns the neighbour search strategy (default: brute)
func (c *Config) GetSearch() string {
	if c.Model.Search == "" {
		return DefaultSearch
	}
	return c.Model.Search
}

// String returns a string representation of the config
func (c *Config) String() string {
	seed := "random"
	if s := c.Split.SeedPtr(); s != nil {
		seed = fmt.Sprintf("%d", *s)
	}
	return fmt.Sprintf("Config{Dataset: %s, Split: {TrainRatio: %g, Seed: %s, Stratify: %t}, Model: {K: %d, Search: %s}}",
		c.GetDatasetSource(), c.Split.TrainRatio, seed, c.Split.Stratify, c.Model.K, c.GetSearch())
}
