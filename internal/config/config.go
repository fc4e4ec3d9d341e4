package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"perfwatch/internal/baseline"
	"perfwatch/internal/history"
	"perfwatch/internal/regression"
	"perfwatch/internal/report"

	"gopkg.in/yaml.v3"
)

// SearchPaths are tried in order when no config path is given.
var SearchPaths = []string{"perfwatch.yaml", ".perfwatch.yaml"}

// HistoryFileName is the history file kept in the output directory by default.
const HistoryFileName = "history.json"

// Config is the full perfwatch configuration.
type Config struct {
	OutputDir   string `yaml:"output_dir"`
	BaselineDir string `yaml:"baseline_dir"`
	// HistoryFile defaults to history.json inside OutputDir.
	HistoryFile string `yaml:"history_file"`

	PassThreshold          float64 `yaml:"pass_threshold"`
	BaselineMinSuccessRate float64 `yaml:"baseline_min_success_rate"`
	KeepReports            int     `yaml:"keep_reports"`

	// Metrics enables the Prometheus textfile next to the reports.
	Metrics bool `yaml:"metrics"`
	Debug   bool `yaml:"debug"`

	Thresholds regression.Thresholds `yaml:"thresholds"`
	History    history.Options       `yaml:"history"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:              report.DefaultDir(),
		BaselineDir:            baseline.DefaultDir(),
		PassThreshold:          95,
		BaselineMinSuccessRate: 95,
		Thresholds:             regression.DefaultThresholds(),
		History:                history.DefaultOptions(),
	}
}

// Load reads configuration from a file. An explicit path must exist. With
// an empty path SearchPaths are tried in order, and when none exists the
// defaults are returned. File values overlay the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else {
		found := false
		for _, name := range SearchPaths {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("cannot read config %s: %w", name, err)
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.PassThreshold < 0 || c.PassThreshold > 100 {
		return fmt.Errorf("pass_threshold must be between 0 and 100, got %v", c.PassThreshold)
	}
	if c.BaselineMinSuccessRate < 0 || c.BaselineMinSuccessRate > 100 {
		return fmt.Errorf("baseline_min_success_rate must be between 0 and 100, got %v", c.BaselineMinSuccessRate)
	}
	if c.KeepReports < 0 {
		return fmt.Errorf("keep_reports must not be negative, got %d", c.KeepReports)
	}
	if c.History.MaxBatches < 0 || c.History.MaxReports < 0 {
		return errors.New("history capacities must not be negative")
	}
	return nil
}

// HistoryPath returns the history file, defaulting into OutputDir.
func (c *Config) HistoryPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	return filepath.Join(c.OutputDir, HistoryFileName)
}

// ReportOptions returns the report builder options.
func (c *Config) ReportOptions() report.Options {
	return report.Options{
		PassThreshold:          c.PassThreshold,
		BaselineMinSuccessRate: c.BaselineMinSuccessRate,
		Thresholds:             c.Thresholds,
		KeepReports:            c.KeepReports,
	}
}
