package regression

import (
	"perfwatch/internal/baseline"
	"perfwatch/internal/record"
)

// Analyze compares current benchmarks against the baseline using the
// default thresholds.
func Analyze(current []record.Benchmark, b baseline.Baseline) Analysis {
	return AnalyzeWith(current, b, DefaultThresholds())
}

// AnalyzeWith compares current benchmarks against the baseline. Tests
// without a baseline record are skipped, so new tests cannot regress.
func AnalyzeWith(current []record.Benchmark, b baseline.Baseline, th Thresholds) Analysis {
	analysis := Analysis{
		Regressions:  []Change{},
		Improvements: []Change{},
	}

	for _, cur := range current {
		prev, ok := b.Lookup(cur.TestName)
		if !ok {
			continue
		}

		// Throughput of 0 means not measured
		if prev.Throughput > 0 && cur.Throughput > 0 {
			c := newChange(cur.TestName, MetricThroughput, prev.Throughput, cur.Throughput)
			switch {
			case c.ChangePercent < th.Throughput.Regression:
				analysis.Regressions = append(analysis.Regressions, c)
			case c.ChangePercent > th.Throughput.Improvement:
				analysis.Improvements = append(analysis.Improvements, c)
			}
		}

		if prev.Duration > 0 {
			c := newChange(cur.TestName, MetricDuration, prev.Duration, cur.Duration)
			classifyLowerIsBetter(&analysis, c, th.Duration)
		}

		if prev.PeakHeap() > 0 {
			c := newChange(cur.TestName, MetricMemory, prev.PeakHeap(), cur.PeakHeap())
			classifyLowerIsBetter(&analysis, c, th.Memory)
		}
	}

	analysis.HasRegressions = len(analysis.Regressions) > 0
	return analysis
}

// ChangePercent returns the relative change from previous to current.
// previous must be non-zero.
func ChangePercent(previous, current float64) float64 {
	return (current - previous) / previous * 100
}

func newChange(testName string, metric Metric, previous, current float64) Change {
	return Change{
		TestName:      testName,
		Metric:        metric,
		PreviousValue: previous,
		CurrentValue:  current,
		ChangePercent: ChangePercent(previous, current),
	}
}

func classifyLowerIsBetter(a *Analysis, c Change, th Threshold) {
	switch {
	case c.ChangePercent > th.Regression:
		a.Regressions = append(a.Regressions, c)
	case c.ChangePercent < th.Improvement:
		a.Improvements = append(a.Improvements, c)
	}
}
