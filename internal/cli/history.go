package cli

import (
	"fmt"
	"io"
	"sort"

	"perfwatch/internal/history"
	"perfwatch/internal/record"
	"perfwatch/internal/regression"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Analyze the rolling benchmark history",
		Long: `The rolling history keeps the most recent benchmark batches and reports.
Queries recompute from the stored window and never touch the baseline.`,
	}
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	var input string
	ingest := &cobra.Command{
		Use:   "ingest",
		Short: "Add a batch of benchmark records to the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := record.LoadBenchmarks(input)
			if err != nil {
				return fmt.Errorf("cannot load benchmarks: %w", err)
			}

			h, err := a.loadHistory()
			if err != nil {
				return err
			}
			h.Ingest(records)
			if err := h.Save(a.cfg.HistoryPath()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d record(s), %d batch(es) in history\n", len(records), h.BatchCount())
			return nil
		},
	}
	ingest.Flags().StringVarP(&input, "input", "i", "", "benchmark records JSON file")
	_ = ingest.MarkFlagRequired("input")

	analyze := &cobra.Command{
		Use:   "analyze [test...]",
		Short: "Summarize throughput, latency, memory and reliability per test",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory()
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = h.TestNames()
			}

			all := []history.PerformanceMetrics{}
			for _, name := range names {
				pm, ok := h.AnalyzePerformanceMetrics(name)
				if !ok {
					return fmt.Errorf("no history for test %q", name)
				}
				all = append(all, pm)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, all)
			}
			for _, pm := range all {
				printPerformance(out, pm)
			}
			return nil
		},
	}

	anomalies := &cobra.Command{
		Use:   "anomalies [test...]",
		Short: "Detect anomalies per test",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory()
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = h.TestNames()
			}

			found := make(map[string][]history.Anomaly)
			for _, name := range names {
				if list := h.DetectAnomalies(name); len(list) > 0 {
					found[name] = list
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, found)
			}
			if len(found) == 0 {
				fmt.Fprintln(out, "✅ No anomalies detected")
				return nil
			}
			for _, name := range names {
				for _, an := range found[name] {
					if a.ci {
						fmt.Fprintf(out, "::warning title=Performance anomaly::%s %s\n", name, an.Message)
					} else {
						fmt.Fprintf(out, "⚠️  %s [%s]: %s\n", name, an.Severity, an.Message)
					}
				}
			}
			return nil
		},
	}

	var horizon int
	predict := &cobra.Command{
		Use:   "predict <test>",
		Short: "Extrapolate a test's metrics with a least-squares fit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory()
			if err != nil {
				return err
			}
			p := h.PredictPerformance(args[0], horizon)

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, p)
			}

			fmt.Fprintf(out, "%s: %d point(s), confidence %s, horizon %d run(s)\n", p.TestName, p.Points, p.Confidence, p.Horizon)
			printForecast(out, regression.MetricThroughput, p.Throughput)
			printForecast(out, regression.MetricDuration, p.Duration)
			printForecast(out, regression.MetricMemory, p.Memory)
			for _, rec := range p.Recommendations {
				fmt.Fprintf(out, "  - %s\n", rec)
			}
			return nil
		},
	}
	predict.Flags().IntVar(&horizon, "horizon", 5, "runs to extrapolate past the latest point")

	trends := &cobra.Command{
		Use:   "trends",
		Short: "Show metric trends for tests with at least three points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory()
			if err != nil {
				return err
			}
			all := h.GeneratePerformanceTrends()

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, all)
			}
			if len(all) == 0 {
				fmt.Fprintln(out, "Not enough history for trends")
				return nil
			}

			names := make([]string, 0, len(all))
			for name := range all {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				t := all[name]
				fmt.Fprintf(out, "%s: throughput %s, duration %s, memory %s, success rate %s\n",
					name, t.Throughput.Trend, t.Duration.Trend, t.Memory.Trend, t.SuccessRate.Trend)
			}
			return nil
		},
	}

	health := &cobra.Command{
		Use:   "health",
		Short: "Summarize the most recent batch and the report window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory()
			if err != nil {
				return err
			}
			sys := h.AnalyzeSystemHealth()
			reports := h.AnalyzeReportHistory()

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, struct {
					System  history.SystemHealth  `json:"system"`
					Reports history.ReportHistory `json:"reports"`
				}{sys, reports})
			}

			fmt.Fprintf(out, "Tests in last batch: %d\n", sys.Tests)
			fmt.Fprintf(out, "Agents:              %.1f average, %d active, %d failed\n", sys.AverageAgents, sys.ActiveAgents, sys.FailedAgents)
			fmt.Fprintf(out, "Success rate:        %.1f%%\n", sys.AverageSuccessRate)
			fmt.Fprintf(out, "Concurrency:         %d peak, %.1f average\n", sys.PeakConcurrency, sys.AverageConcurrency)
			fmt.Fprintf(out, "Reports:             %d (%d with regressions), success rate %s\n",
				reports.Reports, reports.RegressionRuns, reports.SuccessRateTrend)
			return nil
		},
	}

	cmd.AddCommand(ingest, analyze, anomalies, predict, trends, health)
	return cmd
}

func (a *app) loadHistory() (*history.Analyzer, error) {
	return history.LoadFile(a.cfg.HistoryPath(), a.cfg.History, a.logger)
}

func printPerformance(w io.Writer, pm history.PerformanceMetrics) {
	fmt.Fprintf(w, "%s (%d sample(s))\n", pm.TestName, pm.Samples)
	fmt.Fprintf(w, "  throughput:  %s (first %s, %+.1f%%, %s)\n",
		regression.FormatValue(regression.MetricThroughput, pm.Throughput.Current),
		regression.FormatValue(regression.MetricThroughput, pm.Throughput.Baseline),
		pm.Throughput.ChangePercent, pm.Throughput.Trend)
	fmt.Fprintf(w, "  latency:     avg %.0fms, p95 %.0fms, p99 %.0fms\n", pm.Latency.Average, pm.Latency.P95, pm.Latency.P99)
	fmt.Fprintf(w, "  memory:      peak %s, avg %s, %+.1f%% since first (%s)\n",
		regression.FormatValue(regression.MetricMemory, pm.Memory.Peak),
		regression.FormatValue(regression.MetricMemory, pm.Memory.Average),
		pm.Memory.GrowthPercent, pm.Memory.Trend)
	fmt.Fprintf(w, "  reliability: %.1f%% success, %.1f%% errors (%s)\n", pm.Reliability.SuccessRate, pm.Reliability.ErrorRate, pm.Reliability.Trend)
}

func printForecast(w io.Writer, metric regression.Metric, f *history.Forecast) {
	if f == nil {
		return
	}
	fmt.Fprintf(w, "  %-10s %s → %s (%s)\n", string(metric)+":",
		regression.FormatValue(metric, f.Current), regression.FormatValue(metric, f.Predicted), f.Trend)
}
