package cli

import (
	"errors"
	"fmt"
	"time"

	"perfwatch/internal/baseline"
	"perfwatch/internal/regression"

	"github.com/spf13/cobra"
)

func newBaselineCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Inspect or clear the stored baseline",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := baseline.NewStore(a.cfg.BaselineDir)
			b, err := store.Read()
			if err != nil {
				if errors.Is(err, baseline.ErrBaselineNotFound) {
					return fmt.Errorf("no baseline in %s", a.cfg.BaselineDir)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, b)
			}

			fmt.Fprintf(out, "Path:       %s\n", store.Path())
			fmt.Fprintf(out, "Saved at:   %s\n", b.SavedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "Benchmarks: %d\n", len(b.Benchmarks))
			for _, r := range b.Benchmarks {
				fmt.Fprintf(out, "  %s  %s  %s  %s\n",
					r.TestName,
					regression.FormatValue(regression.MetricDuration, r.Duration),
					regression.FormatValue(regression.MetricThroughput, r.Throughput),
					regression.FormatValue(regression.MetricMemory, r.PeakHeap()))
			}
			return nil
		},
	}
	showCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := baseline.NewStore(a.cfg.BaselineDir)
			if err := store.Clear(); err != nil {
				if errors.Is(err, baseline.ErrBaselineNotFound) {
					return fmt.Errorf("no baseline in %s", a.cfg.BaselineDir)
				}
				return err
			}
			a.logger.Info("Baseline cleared")
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted baseline: %s\n", store.Path())
			return nil
		},
	}

	cmd.AddCommand(showCmd, clearCmd)
	return cmd
}
