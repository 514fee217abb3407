package commands

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/iris/config"
	"github.com/teranos/iris/display"
	"github.com/teranos/iris/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect iris configuration",
	Long: `Display and check iris configuration settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (IRIS_* prefix)
3. Project config (./iris.toml, searched up directories)
4. User config (~/.iris/iris.toml)
5. System config (/etc/iris/iris.toml)
6. Default values

Examples:
  iris config show                  # Show current configuration
  iris config show --format yaml    # Show configuration as YAML
  iris config get model.k           # Get a specific value
  iris config validate              # Validate current configuration
  iris config where                 # Show where each setting comes from`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective iris configuration from all sources",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., model.k, split.train_ratio)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Check that the current configuration can produce a valid run",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and the source of every setting.

Settings are grouped by the layer that supplied them: built-in defaults,
config files or IRIS_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runConfigWhere,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

// loadConfigFile honours --config without applying run flags
func loadConfigFile(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFile(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	format := configFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}

	switch format {
	case "json":
		return display.OutputJSON(out, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		_, err = fmt.Fprintf(out, "# iris configuration\n%s", data)
		return err

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		_, err = fmt.Fprintf(out, "# iris configuration\n%s", data)
		return err

	default:
		return errors.WithHint(
			errors.NewInvalidRequestError("unsupported format: %s", configFormat),
			"supported formats: toml, json, yaml")
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	// Loading first points GetViper at the --config file when one is given
	if _, err := loadConfigFile(cmd); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if !config.GetViper().IsSet(key) {
		return errors.WithHint(
			errors.NewNotFoundError("configuration key %q not found", key),
			"run 'iris config where' to list every key")
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), config.Get(key))
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFile(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return err
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	intro, err := config.GetConfigIntrospection()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, intro)
	}

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	for i, line := range config.CascadeDescription() {
		fmt.Fprintf(out, "  %d. %s\n", i+1, line)
	}
	fmt.Fprintln(out)

	// Group settings by the file or layer that supplied them
	type group struct {
		source   config.ConfigSource
		path     string
		settings []config.SettingInfo
	}
	groups := map[string]*group{}
	for _, setting := range intro.Settings {
		key := string(setting.Source) + "|" + setting.SourcePath
		g, ok := groups[key]
		if !ok {
			g = &group{source: setting.Source, path: setting.SourcePath}
			groups[key] = g
		}
		g.settings = append(g.settings, setting)
	}

	sourceOrder := []config.ConfigSource{
		config.SourceDefault,
		config.SourceSystem,
		config.SourceUser,
		config.SourceProject,
		config.SourceExplicit,
		config.SourceEnvironment,
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range sourceOrder {
		var ordered []*group
		for _, g := range groups {
			if g.source == source {
				ordered = append(ordered, g)
			}
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].path < ordered[j].path })

		for _, g := range ordered {
			switch source {
			case config.SourceDefault:
				fmt.Fprintf(out, "\n%s: %d settings\n", source, len(g.settings))
			case config.SourceEnvironment:
				fmt.Fprintf(out, "\n%s: %d settings from environment variables\n", source, len(g.settings))
			default:
				fmt.Fprintf(out, "\n%s: %d settings from %s\n", source, len(g.settings), g.path)
			}

			data := pterm.TableData{}
			for _, s := range g.settings {
				row := []string{s.Key, fmt.Sprintf("%v", s.Value)}
				if source == config.SourceEnvironment {
					row = append(row, s.SourcePath)
				}
				data = append(data, row)
			}
			if err := pterm.DefaultTable.WithData(data).WithLeftAlignment().WithWriter(out).Render(); err != nil {
				return errors.Wrap(err, "failed to render settings")
			}
		}
	}

	return nil
}
