package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/iris/config"
	"github.com/teranos/iris/errors"
)

// isolate points the config cascade at empty directories
func isolate(t *testing.T) string {
	t.Helper()
	config.Reset()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(config.Reset)
	return dir
}

func writeProjectConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectConfigName), []byte(content), 0o644))
}

// resetFlags restores flag defaults; the commands are package globals
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(cmd)
	if args == nil {
		args = []string{}
	}

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type runOutput struct {
	Split struct {
		Seed  int64 `json:"seed"`
		Train int   `json:"train"`
		Test  int   `json:"test"`
	} `json:"split"`
	Model struct {
		K            int    `json:"k"`
		Search       string `json:"search"`
		Standardized bool   `json:"standardized"`
	} `json:"model"`
	Evaluation struct {
		Accuracy float64 `json:"accuracy"`
		Total    int     `json:"total"`
	} `json:"evaluation"`
	Samples []struct {
		Predicted string `json:"predicted"`
	} `json:"sample_predictions"`
}

func runJSON(t *testing.T, args ...string) runOutput {
	t.Helper()
	t.Setenv("IRIS_OUTPUT", "json")

	stdout, _, err := execute(t, RunCmd, args...)
	require.NoError(t, err)

	var out runOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	return out
}

func TestRunCmd_Report(t *testing.T) {
	isolate(t)

	stdout, stderr, err := execute(t, RunCmd)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	assert.Contains(t, stdout, "IRIS FLOWER CLASSIFICATION")
	assert.Contains(t, stdout, "k-nearest neighbours (k=5)")
	assert.Contains(t, stdout, "Training samples: 120")
	assert.Contains(t, stdout, "Testing samples: 30")
	assert.Contains(t, stdout, "Seed: 42")
	assert.Contains(t, stdout, "Accuracy: ")
	assert.Contains(t, stdout, "weighted avg")
	assert.Contains(t, stdout, "Sample 1: [5.1, 3.5, 1.4, 0.2]")
	assert.Contains(t, stdout, "Predicted class: setosa")
	assert.Contains(t, stdout, "PROGRAM COMPLETED SUCCESSFULLY")
}

func TestRunCmd_JSON(t *testing.T) {
	isolate(t)

	out := runJSON(t)
	assert.Equal(t, int64(42), out.Split.Seed)
	assert.Equal(t, 120, out.Split.Train)
	assert.Equal(t, 30, out.Split.Test)
	assert.Equal(t, 5, out.Model.K)
	assert.Equal(t, "brute", out.Model.Search)
	assert.True(t, out.Model.Standardized)
	assert.Equal(t, 30, out.Evaluation.Total)
	assert.GreaterOrEqual(t, out.Evaluation.Accuracy, 0.8)
	require.Len(t, out.Samples, 3)
	assert.Equal(t, "setosa", out.Samples[0].Predicted)
	assert.Equal(t, "virginica", out.Samples[2].Predicted)
}

func TestRunCmd_ProjectConfig(t *testing.T) {
	dir := isolate(t)
	writeProjectConfig(t, dir, "[model]\nk = 3\nsearch = \"vptree\"\n\n[split]\nseed = 7\n")

	out := runJSON(t)
	assert.Equal(t, 3, out.Model.K)
	assert.Equal(t, "vptree", out.Model.Search)
	assert.Equal(t, int64(7), out.Split.Seed)
}

func TestRunCmd_FlagsOverrideConfig(t *testing.T) {
	dir := isolate(t)
	writeProjectConfig(t, dir, "[model]\nk = 3\n\n[split]\nseed = 7\n")

	out := runJSON(t, "-k", "7", "--seed", "11", "--train-ratio", "0.7", "--no-standardize", "--no-samples")
	assert.Equal(t, 7, out.Model.K)
	assert.Equal(t, int64(11), out.Split.Seed)
	assert.Equal(t, 105, out.Split.Train)
	assert.Equal(t, 45, out.Split.Test)
	assert.False(t, out.Model.Standardized)
	assert.Empty(t, out.Samples)
}

func TestRunCmd_FlagsDoNotLeakIntoCachedConfig(t *testing.T) {
	isolate(t)

	runJSON(t, "-k", "9")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultK, cfg.Model.K)
}

func TestRunCmd_Random(t *testing.T) {
	isolate(t)

	first := runJSON(t, "--random")
	second := runJSON(t, "--seed", "1", "--random")
	// --random wins over --seed when both are given
	assert.NotEqual(t, first.Split.Seed, second.Split.Seed)
	assert.NotEqual(t, int64(1), second.Split.Seed)

	replay := runJSON(t, "--seed="+strconv.FormatInt(first.Split.Seed, 10))
	assert.Equal(t, first.Split.Seed, replay.Split.Seed)
	assert.Equal(t, first.Evaluation.Accuracy, replay.Evaluation.Accuracy)
}

func TestRunCmd_ConfigErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"zero k", []string{"-k", "0"}},
		{"k above training size", []string{"-k", "121"}},
		{"ratio of one", []string{"--train-ratio", "1"}},
		{"negative ratio", []string{"--train-ratio", "-0.2"}},
		{"unknown search", []string{"--search", "kdtree"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, RunCmd, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsConfigError(err), "got %v", err)
			assert.Empty(t, stdout)
		})
	}
}

func TestRunCmd_MissingDataset(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, RunCmd, "--dataset", "no-such-file.csv")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.NotEmpty(t, errors.FlattenHints(err))
}

func TestRunCmd_CSVDataset(t *testing.T) {
	dir := isolate(t)

	csv := "sepal_length,sepal_width,petal_length,petal_width,species\n"
	for i := 0; i < 10; i++ {
		csv += "5.0,3.4,1.5,0.2,setosa\n6.4,2.9,4.3,1.3,versicolor\n6.9,3.1,5.4,2.1,virginica\n"
	}
	path := filepath.Join(dir, "flowers.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out := runJSON(t, "--dataset", path, "-k", "3")
	assert.Equal(t, 24, out.Split.Train)
	assert.Equal(t, 6, out.Split.Test)
	assert.Equal(t, 1.0, out.Evaluation.Accuracy)
}

func TestPredictCmd(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, PredictCmd, "5.1", "3.5", "1.4", "0.2", "7.2", "3.2", "6", "1.8")
	require.NoError(t, err)
	assert.Equal(t, "[5.1, 3.5, 1.4, 0.2] -> setosa\n[7.2, 3.2, 6.0, 1.8] -> virginica\n", stdout)
}

func TestPredictCmd_JSON(t *testing.T) {
	isolate(t)
	t.Setenv("IRIS_OUTPUT", "json")

	stdout, _, err := execute(t, PredictCmd, "-k", "3", "5.1", "3.5", "1.4", "0.2")
	require.NoError(t, err)

	var out []struct {
		Predicted string            `json:"predicted"`
		Neighbors []json.RawMessage `json:"neighbors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "setosa", out[0].Predicted)
	assert.Len(t, out[0].Neighbors, 3)
}

func TestPredictCmd_InvalidArgs(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, PredictCmd, "5.1", "3.5", "1.4")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))

	_, _, err = execute(t, PredictCmd, "5.1", "3.5", "wide", "0.2")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), `"wide"`)

	for _, bad := range []string{"NaN", "+Inf", "-inf"} {
		_, _, err = execute(t, PredictCmd, "5.1", "3.5", bad, "0.2")
		require.Error(t, err, bad)
		assert.True(t, errors.IsInvalidRequestError(err), bad)
		assert.Contains(t, err.Error(), "not a finite number")
	}
}

func TestConfigShow(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, ConfigCmd, "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# iris configuration")
	assert.Contains(t, stdout, "[model]")
	assert.Contains(t, stdout, "k = 5")

	stdout, _, err = execute(t, ConfigCmd, "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "model:")
	assert.Contains(t, stdout, "train_ratio: 0.8")

	stdout, _, err = execute(t, ConfigCmd, "show", "--format", "json")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, 5, cfg.Model.K)

	_, _, err = execute(t, ConfigCmd, "show", "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestConfigGet(t *testing.T) {
	isolate(t)
	t.Setenv("IRIS_MODEL_K", "9")

	stdout, _, err := execute(t, ConfigCmd, "get", "model.k")
	require.NoError(t, err)
	assert.Equal(t, "9\n", stdout)

	_, _, err = execute(t, ConfigCmd, "get", "model.depth")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

// withConfigFlag gives ConfigCmd the --config flag the root command
// normally provides
func withConfigFlag() {
	if ConfigCmd.PersistentFlags().Lookup("config") == nil {
		ConfigCmd.PersistentFlags().String("config", "", "config file")
	}
}

func TestConfigGet_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	withConfigFlag()
	writeProjectConfig(t, dir, "[model]\nk = 3\n")
	explicit := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(explicit, []byte("[model]\nk = 11\n"), 0o644))

	stdout, _, err := execute(t, ConfigCmd, "get", "model.k", "--config", explicit)
	require.NoError(t, err)
	assert.Equal(t, "11\n", stdout)

	config.Reset()
	stdout, _, err = execute(t, ConfigCmd, "get", "model.k")
	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout)
}

func TestConfigValidate(t *testing.T) {
	dir := isolate(t)

	stdout, _, err := execute(t, ConfigCmd, "validate")
	require.NoError(t, err)
	assert.Equal(t, "✓ Configuration is valid\n", stdout)

	config.Reset()
	writeProjectConfig(t, dir, "[split]\ntrain_ratio = 1.5\n")
	_, _, err = execute(t, ConfigCmd, "validate")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestConfigWhere(t *testing.T) {
	dir := isolate(t)
	writeProjectConfig(t, dir, "[model]\nk = 3\n")
	t.Setenv("IRIS_REPORT_DIGITS", "3")

	stdout, _, err := execute(t, ConfigCmd, "where")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Configuration cascade (later overrides earlier):")
	assert.Contains(t, stdout, "1. [DEFAULT]")
	assert.Contains(t, stdout, "default: ")
	assert.Contains(t, stdout, "project: 1 settings from ")
	assert.Contains(t, stdout, "environment: 1 settings from environment variables")
	assert.Contains(t, stdout, "IRIS_REPORT_DIGITS")
	assert.Contains(t, stdout, "model.k")
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, VersionCmd)
	require.NoError(t, err)
	assert.Contains(t, stdout, "iris ")
	assert.Contains(t, stdout, "Platform: ")
	assert.Contains(t, stdout, "Go: ")
}
