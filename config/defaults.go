package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dataset.source", DefaultSource)

	// Same split as the reference run: 80/20, stratified, seed 42
	v.SetDefault("split.train_ratio", DefaultTrainRatio)
	v.SetDefault("split.seed", DefaultSeed)
	v.SetDefault("split.stratify", true)
	v.SetDefault("split.random", false)

	v.SetDefault("preprocess.standardize", true)

	v.SetDefault("model.k", DefaultK)
	v.SetDefault("model.search", DefaultSearch)

	v.SetDefault("report.digits", DefaultDigits)
	v.SetDefault("report.sample_predictions", true)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)
}

// BindEnvVars explicitly binds settings whose env names don't follow the
// IRIS_<SECTION>_<KEY> pattern
func BindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("dataset.source", "IRIS_DATASET", "IRIS_DATASET_SOURCE")
	_ = v.BindEnv("log.theme", "IRIS_LOG_THEME")
}
