package config

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/iris/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/iris/iris.toml
	SourceUser        ConfigSource = "user"        // ~/.iris/iris.toml
	SourceProject     ConfigSource = "project"     // ./iris.toml (searched upward)
	SourceExplicit    ConfigSource = "explicit"    // --config <path>
	SourceEnvironment ConfigSource = "environment" // IRIS_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource // The type of config source
	Path   string       // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	Files    []string      `json:"files"`    // Config files that were merged
	Settings []SettingInfo `json:"settings"` // All settings with sources, sorted by key
}

// GetConfigIntrospection returns every effective setting with the source it
// was loaded from
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}
	v := GetViper()

	keys := v.AllKeys()
	sort.Strings(keys)

	files := map[string]struct{}{}
	introspection := &ConfigIntrospection{Settings: make([]SettingInfo, 0, len(keys))}
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[key]; ok {
			info = si
			files[si.Path] = struct{}{}
		}

		// Environment variables override files
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}

	for f := range files {
		introspection.Files = append(introspection.Files, f)
	}
	sort.Strings(introspection.Files)

	return introspection, nil
}

// CascadeDescription lists the configuration cascade, lowest precedence first
func CascadeDescription() []string {
	return []string{
		"[DEFAULT]   Built-in defaults",
		"[SYSTEM]    /etc/iris/iris.toml",
		"[USER]      ~/.iris/iris.toml",
		"[PROJECT]   ./iris.toml (searches up directories)",
		"[EXPLICIT]  --config <path> (replaces the file cascade)",
		"[ENV]       IRIS_* environment variables",
		"[FLAGS]     command line flags",
	}
}
