package config

import (
	"os"
	"path/filepath"
	"testing"

	"perfwatch/internal/baseline"
	"perfwatch/internal/history"
	"perfwatch/internal/regression"
	"perfwatch/internal/report"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, report.DefaultDir(), cfg.OutputDir)
	assert.Equal(t, baseline.DefaultDir(), cfg.BaselineDir)
	assert.Equal(t, 95.0, cfg.PassThreshold)
	assert.Equal(t, 95.0, cfg.BaselineMinSuccessRate)
	assert.Equal(t, regression.DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, history.DefaultOptions(), cfg.History)
	assert.False(t, cfg.Metrics)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "custom.yaml", `
output_dir: out
keep_reports: 5
metrics: true
thresholds:
  throughput:
    regression: -5
history:
  max_batches: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 5, cfg.KeepReports)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, -5.0, cfg.Thresholds.Throughput.Regression)
	assert.Equal(t, 10.0, cfg.Thresholds.Throughput.Improvement)
	assert.Equal(t, regression.DefaultThresholds().Duration, cfg.Thresholds.Duration)
	assert.Equal(t, 10, cfg.History.MaxBatches)
	assert.Equal(t, history.DefaultMaxReports, cfg.History.MaxReports)
	assert.Equal(t, 95.0, cfg.PassThreshold)
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.yaml", "output_dir: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadRejectsOutOfRange(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.yaml", "pass_threshold: 150\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass_threshold")
}

func TestLoadSearchPaths(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	writeConfig(t, dir, ".perfwatch.yaml", "keep_reports: 2\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.KeepReports)

	// perfwatch.yaml takes precedence
	writeConfig(t, dir, "perfwatch.yaml", "keep_reports: 7\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.KeepReports)
}

func TestHistoryPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = "out"
	assert.Equal(t, filepath.Join("out", HistoryFileName), cfg.HistoryPath())

	cfg.HistoryFile = "/tmp/h.json"
	assert.Equal(t, "/tmp/h.json", cfg.HistoryPath())
}

func TestReportOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeepReports = 3

	opts := cfg.ReportOptions()
	assert.Equal(t, 95.0, opts.PassThreshold)
	assert.Equal(t, 3, opts.KeepReports)
	assert.Equal(t, cfg.Thresholds, opts.Thresholds)
}

// TestApplyEnv tests that PERFWATCH_* variables override file values
func TestApplyEnv(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("set variables win", prop.ForAll(
		func(out, base, hist string) bool {
			cfg := DefaultConfig()
			cfg.ApplyEnv([]string{
				"PERFWATCH_OUTPUT_DIR=" + out,
				"PERFWATCH_BASELINE_DIR=" + base,
				"PERFWATCH_HISTORY_FILE=" + hist,
			})
			return cfg.OutputDir == out && cfg.BaselineDir == base && cfg.HistoryFile == hist
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.Property("unset variables keep file values", prop.ForAll(
		func(other string) bool {
			cfg := DefaultConfig()
			cfg.OutputDir = "from-file"
			cfg.ApplyEnv([]string{"OTHER=" + other, "MALFORMED"})
			return cfg.OutputDir == "from-file" &&
				cfg.BaselineDir == baseline.DefaultDir() &&
				cfg.HistoryFile == ""
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

func TestParseEnvironValueWithEquals(t *testing.T) {
	env := parseEnviron([]string{"A=b=c", "EMPTY="})
	assert.Equal(t, "b=c", env["A"])
	v, ok := env["EMPTY"]
	assert.True(t, ok)
	assert.Empty(t, v)
}
