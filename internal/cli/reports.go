package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"perfwatch/internal/regression"
	"perfwatch/internal/report"

	"github.com/spf13/cobra"
)

func newReportsCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect persisted reports",
	}
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	list := &cobra.Command{
		Use:   "list",
		Short: "List timestamped reports, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := report.NewStore(a.cfg.OutputDir).List()
			if err != nil {
				return fmt.Errorf("cannot list reports: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, paths)
			}
			if len(paths) == 0 {
				fmt.Fprintln(out, "No reports found")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintln(out, filepath.Base(p))
			}
			return nil
		},
	}

	latest := &cobra.Command{
		Use:   "latest",
		Short: "Show the latest summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := report.NewStore(a.cfg.OutputDir).LoadLatest()
			if err != nil {
				if errors.Is(err, report.ErrReportNotFound) {
					return fmt.Errorf("no report in %s", a.cfg.OutputDir)
				}
				return fmt.Errorf("cannot load latest summary: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, l)
			}
			fmt.Fprintf(out, "Report:       %s\n", l.ReportID)
			fmt.Fprintf(out, "Timestamp:    %s\n", l.Timestamp.Format(time.RFC3339))
			fmt.Fprintf(out, "Tests:        %d total, %d passed, %d failed\n", l.Summary.TotalTests, l.Summary.PassedTests, l.Summary.FailedTests)
			fmt.Fprintf(out, "Success rate: %.1f%%\n", l.Summary.SuccessRate)
			fmt.Fprintf(out, "Regressions:  %t\n", l.HasRegressions)
			return nil
		},
	}

	var analysisOnly bool
	show := &cobra.Command{
		Use:   "show <file>",
		Short: "Show one report's regression analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if filepath.Base(path) == path {
				path = filepath.Join(a.cfg.OutputDir, path)
			}

			r, err := report.NewStore(a.cfg.OutputDir).Load(path)
			if err != nil {
				if errors.Is(err, report.ErrReportNotFound) {
					return fmt.Errorf("report not found: %s", path)
				}
				return fmt.Errorf("cannot load report: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput && analysisOnly:
				data, err := regression.FormatJSON(r.RegressionAnalysis)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, data)
				return nil
			case jsonOutput:
				return printJSON(out, r)
			}
			printAnalysis(a, cmd, r)
			return nil
		},
	}

	show.Flags().BoolVar(&analysisOnly, "analysis", false, "with --json, print only the regression analysis")

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := report.NewStore(a.cfg.OutputDir).Prune(keep)
			if err != nil {
				return fmt.Errorf("cannot prune reports: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d report(s)\n", deleted)
			return nil
		},
	}
	prune.Flags().IntVar(&keep, "keep", 10, "number of reports to keep")

	cmd.AddCommand(list, latest, show, prune)
	return cmd
}
