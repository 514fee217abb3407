package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/iris/errors"
)

// ProjectConfigName is the file searched for in the working directory and its parents
const ProjectConfigName = "iris.toml"

// EnvPrefix is the prefix for environment overrides (IRIS_MODEL_K=7)
const EnvPrefix = "IRIS"

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records where each loaded key came from. It is filled by the
// cascade in mergeConfigFiles and read by GetConfigIntrospection.
var ConfigSources = map[string]SourceInfo{}

// Load reads the iris configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, on top of the
// defaults and environment
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	for _, key := range v.AllKeys() {
		if v.InConfig(key) {
			ConfigSources[key] = SourceInfo{Source: SourceExplicit, Path: configPath}
		}
	}
	viperInstance = v

	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// newViper returns a viper with env binding and defaults, but no files
func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)
	return v
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := newViper()

	// Merge configs in precedence order: system -> user -> project.
	// Env vars still win because files land in viper's config layer.
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for iris.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			break
		}
		dir = parent
	}

	return ""
}

// configCascade lists candidate config files with their source, lowest
// precedence first
func configCascade() []SourceInfo {
	cascade := []SourceInfo{
		{Source: SourceSystem, Path: "/etc/iris/iris.toml"},
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		cascade = append(cascade, SourceInfo{Source: SourceUser, Path: filepath.Join(homeDir, ".iris", "iris.toml")})
	}
	if projectConfig := findProjectConfig(); projectConfig != "" {
		cascade = append(cascade, SourceInfo{Source: SourceProject, Path: projectConfig})
	}
	return cascade
}

// mergeConfigFiles merges every existing file of the cascade into v and
// records the source of each key it sets
func mergeConfigFiles(v *viper.Viper) {
	for _, candidate := range configCascade() {
		if _, err := os.Stat(candidate.Path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(candidate.Path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range tempViper.AllKeys() {
			ConfigSources[key] = candidate
		}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}
