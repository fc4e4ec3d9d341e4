package cli

import (
	"errors"
	"fmt"

	"perfwatch/internal/baseline"
	"perfwatch/internal/history"
	"perfwatch/internal/metrics"
	"perfwatch/internal/record"
	"perfwatch/internal/regression"
	"perfwatch/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrRegressions is returned by report --fail-on-regression when the run
// regressed against the baseline.
var ErrRegressions = errors.New("performance regressions detected")

func newReportCmd(a *app) *cobra.Command {
	var (
		input            string
		results          string
		jsonOutput       bool
		noHistory        bool
		failOnRegression bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a report from benchmark records",
		Long: `Compares the benchmark records against the baseline, writes the timestamped
report, the latest summary and report.md to the output directory, and
replaces the baseline when the run is clean. The records are also added to
the rolling history.`,
		Example: `  perfwatch report --input perf-results.json
  perfwatch report --input perf-results.json --results unit.json --ci --fail-on-regression`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := record.LoadBenchmarks(input)
			if err != nil {
				return fmt.Errorf("cannot load benchmarks: %w", err)
			}

			var external []record.TestResult
			if results != "" {
				external, err = record.LoadTestResults(results)
				if err != nil {
					return fmt.Errorf("cannot load test results: %w", err)
				}
			}

			// History is loaded before any artifact is written so that an
			// unreadable file fails the run without side effects.
			var h *history.Analyzer
			if !noHistory {
				h, err = history.LoadFile(a.cfg.HistoryPath(), a.cfg.History, a.logger)
				if err != nil {
					return err
				}
			}

			builder := report.NewBuilder(
				baseline.NewStore(a.cfg.BaselineDir),
				report.NewStore(a.cfg.OutputDir),
				a.env,
				a.cfg.ReportOptions(),
				a.logger,
			)
			if a.cfg.Metrics {
				builder.AddExporter(metrics.NewTextfileExporter(a.cfg.OutputDir))
			}

			res, err := builder.Generate(cmd.Context(), records, external)
			if err != nil {
				return err
			}

			if h != nil {
				if err := a.recordHistory(h, records, res.Report); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := printJSON(out, res.Report.Latest()); err != nil {
					return err
				}
			} else {
				printReport(a, cmd, res)
			}

			if failOnRegression && res.Report.RegressionAnalysis.HasRegressions {
				return ErrRegressions
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "benchmark records JSON file")
	cmd.Flags().StringVar(&results, "results", "", "external test results JSON file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the latest summary as JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not add the run to the rolling history")
	cmd.Flags().BoolVar(&failOnRegression, "fail-on-regression", false, "exit non-zero when regressions are detected")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// recordHistory appends the run to h and persists it.
func (a *app) recordHistory(h *history.Analyzer, records []record.Benchmark, r *report.TestReport) error {
	h.Ingest(records)
	h.AddReport(*r)
	if err := h.Save(a.cfg.HistoryPath()); err != nil {
		return err
	}
	a.logger.Debug("History updated", zap.Int("batches", h.BatchCount()), zap.Int("reports", h.ReportCount()))
	return nil
}

func printReport(a *app, cmd *cobra.Command, res *report.Result) {
	out := cmd.OutOrStdout()

	printAnalysis(a, cmd, res.Report)
	if res.BaselineUpdated {
		fmt.Fprintln(out, "Baseline updated")
	} else {
		fmt.Fprintln(out, "Baseline unchanged")
	}
	fmt.Fprintf(out, "Report written to %s\n", res.Files.Report)
}

// printAnalysis writes the summary, regression analysis and
// recommendations of r.
func printAnalysis(a *app, cmd *cobra.Command, r *report.TestReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Report %s\n", r.ID)
	fmt.Fprintf(out, "Tests: %d total, %d passed, %d failed (%.1f%% success)\n",
		r.Summary.TotalTests, r.Summary.PassedTests, r.Summary.FailedTests, r.Summary.SuccessRate)

	if a.ci {
		fmt.Fprint(out, regression.FormatCI(r.RegressionAnalysis))
	} else {
		fmt.Fprint(out, regression.FormatCLI(r.RegressionAnalysis))
	}

	fmt.Fprintln(out, "Recommendations:")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(out, "  - %s\n", rec)
	}
}
