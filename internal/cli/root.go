package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"perfwatch/internal/config"
	"perfwatch/internal/hostenv"
	"perfwatch/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every command of one invocation.
type app struct {
	environ []string
	env     hostenv.Provider

	// newLogger builds the logger once flags are parsed.
	newLogger func(debug bool) (*zap.Logger, error)

	cfgFile string
	debug   bool
	ci      bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the perfwatch command tree. environ is consulted for
// PERFWATCH_* overrides and CI detection.
func NewRootCmd(environ []string) *cobra.Command {
	return newRootCmd(&app{
		environ:   environ,
		env:       hostenv.Host{},
		newLogger: logging.New,
	})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "perfwatch",
		Short: "Performance regression detection for benchmark suites",
		Long: `perfwatch compares benchmark records against a stored baseline, writes
JSON and Markdown reports, and keeps a rolling history for trend, anomaly
and prediction analysis.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./perfwatch.yaml or ./.perfwatch.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.ci, "ci", false, "emit GitHub Actions annotations (also enabled by CI=true)")

	root.AddCommand(
		newReportCmd(a),
		newReportsCmd(a),
		newBaselineCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(a.environ)
	a.cfg = cfg

	logger, err := a.newLogger(a.debug || cfg.Debug)
	if err != nil {
		return err
	}
	a.logger = logger

	if getEnvBool(a.environ, "CI") {
		a.ci = true
	}

	a.logger.Debug("Configuration loaded",
		zap.String("output_dir", cfg.OutputDir),
		zap.String("baseline_dir", cfg.BaselineDir),
		zap.String("history_file", cfg.HistoryPath()),
	)
	return nil
}

// getEnvBool reports whether name is set to a true value in environ.
func getEnvBool(environ []string, name string) bool {
	prefix := name + "="
	for _, env := range environ {
		if strings.HasPrefix(env, prefix) {
			v := strings.ToLower(strings.TrimPrefix(env, prefix))
			return v == "true" || v == "1" || v == "yes"
		}
	}
	return false
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
