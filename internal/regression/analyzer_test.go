package regression

import (
	"testing"

	"perfwatch/internal/baseline"
	"perfwatch/internal/record"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func bench(name string, duration, throughput, peakHeap float64) record.Benchmark {
	return record.Benchmark{
		TestName:   name,
		Duration:   duration,
		Throughput: throughput,
		MemoryUsage: record.MemoryUsage{
			Peak: record.MemorySnapshot{HeapUsed: peakHeap},
		},
	}
}

func baselineOf(records ...record.Benchmark) baseline.Baseline {
	return baseline.Baseline{Benchmarks: records}
}

// TestThroughputRegressionBoundary tests the -10% throughput threshold
func TestThroughputRegressionBoundary(t *testing.T) {
	base := baselineOf(bench("T", 1000, 10, 100))

	a := Analyze([]record.Benchmark{bench("T", 1000, 8, 100)}, base)
	if !a.HasRegressions || len(a.Regressions) != 1 {
		t.Fatalf("expected one regression, got %+v", a)
	}
	c := a.Regressions[0]
	if c.Metric != MetricThroughput || c.ChangePercent != -20 {
		t.Errorf("expected throughput -20%%, got %s %.2f", c.Metric, c.ChangePercent)
	}
	if c.PreviousValue != 10 || c.CurrentValue != 8 {
		t.Errorf("unexpected values: %+v", c)
	}

	a = Analyze([]record.Benchmark{bench("T", 1000, 9.5, 100)}, base)
	if a.HasRegressions {
		t.Errorf("expected -5%% to stay below threshold, got %+v", a.Regressions)
	}
}

// TestZeroThroughputNotCompared tests that throughput 0 means not applicable
func TestZeroThroughputNotCompared(t *testing.T) {
	a := Analyze(
		[]record.Benchmark{bench("T", 1000, 0, 100)},
		baselineOf(bench("T", 1000, 10, 100)),
	)
	if a.HasRegressions || len(a.Improvements) != 0 {
		t.Errorf("expected no throughput comparison, got %+v", a)
	}

	a = Analyze(
		[]record.Benchmark{bench("T", 1000, 50, 100)},
		baselineOf(bench("T", 1000, 0, 100)),
	)
	if len(a.Improvements) != 0 {
		t.Errorf("expected no throughput comparison, got %+v", a.Improvements)
	}
}

// TestDurationThresholds tests the +20% / -10% duration thresholds
func TestDurationThresholds(t *testing.T) {
	base := baselineOf(bench("T", 1000, 0, 100))

	tests := []struct {
		duration    float64
		regression  bool
		improvement bool
	}{
		{1200, false, false},
		{1201, true, false},
		{900, false, false},
		{899, false, true},
		{1000, false, false},
	}

	for _, tt := range tests {
		a := Analyze([]record.Benchmark{bench("T", tt.duration, 0, 100)}, base)
		if (len(a.Regressions) == 1) != tt.regression {
			t.Errorf("duration %.0f: regression = %v, want %v", tt.duration, len(a.Regressions) == 1, tt.regression)
		}
		if (len(a.Improvements) == 1) != tt.improvement {
			t.Errorf("duration %.0f: improvement = %v, want %v", tt.duration, len(a.Improvements) == 1, tt.improvement)
		}
	}
}

// TestMemoryThresholds tests the +25% / -15% memory thresholds
func TestMemoryThresholds(t *testing.T) {
	base := baselineOf(bench("T", 1000, 0, 1000))

	a := Analyze([]record.Benchmark{bench("T", 1000, 0, 1300)}, base)
	if !a.HasMetric(MetricMemory) {
		t.Errorf("expected memory regression, got %+v", a)
	}

	a = Analyze([]record.Benchmark{bench("T", 1000, 0, 1250)}, base)
	if a.HasRegressions {
		t.Errorf("expected +25%% to stay within threshold, got %+v", a.Regressions)
	}

	a = Analyze([]record.Benchmark{bench("T", 1000, 0, 800)}, base)
	if len(a.Improvements) != 1 || a.Improvements[0].Metric != MetricMemory {
		t.Errorf("expected memory improvement, got %+v", a.Improvements)
	}
}

// TestNewTestsSkipped tests that tests absent from the baseline never regress
func TestNewTestsSkipped(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("unmatched tests produce no entries", prop.ForAll(
		func(name string, duration, throughput, heap float64) bool {
			a := Analyze(
				[]record.Benchmark{bench("new-"+name, duration, throughput, heap)},
				baselineOf(bench("old-"+name, 1, 1, 1)),
			)
			return !a.HasRegressions && len(a.Regressions) == 0 && len(a.Improvements) == 0
		},
		gen.Identifier(),
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1e3),
		gen.Float64Range(0, 1e9),
	))

	properties.TestingRun(t)
}

// TestMetricNeverInBothLists tests that a metric is classified at most once
func TestMetricNeverInBothLists(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("each metric is a regression, an improvement or neither", prop.ForAll(
		func(prevDur, curDur, prevTp, curTp, prevHeap, curHeap float64) bool {
			a := Analyze(
				[]record.Benchmark{bench("T", curDur, curTp, curHeap)},
				baselineOf(bench("T", prevDur, prevTp, prevHeap)),
			)

			seen := make(map[Metric]bool)
			for _, c := range a.Regressions {
				seen[c.Metric] = true
			}
			for _, c := range a.Improvements {
				if seen[c.Metric] {
					return false
				}
			}
			return a.HasRegressions == (len(a.Regressions) > 0) && len(a.Regressions)+len(a.Improvements) <= 3
		},
		gen.Float64Range(1, 1e5),
		gen.Float64Range(0, 1e5),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(1, 1e9),
		gen.Float64Range(0, 1e9),
	))

	properties.TestingRun(t)
}

// TestRegressionDirection tests that regressions always point the bad way
func TestRegressionDirection(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("throughput regressions drop, duration and memory regressions grow", prop.ForAll(
		func(prevDur, curDur, prevTp, curTp float64) bool {
			a := Analyze(
				[]record.Benchmark{bench("T", curDur, curTp, 100)},
				baselineOf(bench("T", prevDur, prevTp, 100)),
			)
			for _, c := range a.Regressions {
				switch c.Metric {
				case MetricThroughput:
					if c.CurrentValue >= c.PreviousValue {
						return false
					}
				default:
					if c.CurrentValue <= c.PreviousValue {
						return false
					}
				}
			}
			return true
		},
		gen.Float64Range(1, 1e5),
		gen.Float64Range(0, 1e5),
		gen.Float64Range(0.1, 100),
		gen.Float64Range(0.1, 100),
	))

	properties.TestingRun(t)
}

// TestMultipleMetricsPerTest tests that one test can contribute several entries
func TestMultipleMetricsPerTest(t *testing.T) {
	a := Analyze(
		[]record.Benchmark{bench("T", 2000, 5, 2000)},
		baselineOf(bench("T", 1000, 10, 1000)),
	)

	if len(a.Regressions) != 3 {
		t.Fatalf("expected 3 regressions, got %d: %+v", len(a.Regressions), a.Regressions)
	}
	for _, m := range []Metric{MetricThroughput, MetricDuration, MetricMemory} {
		if !a.HasMetric(m) {
			t.Errorf("expected %s regression", m)
		}
	}
}

// TestCustomThresholds tests that thresholds can be tightened
func TestCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.Duration.Regression = 5

	a := AnalyzeWith(
		[]record.Benchmark{bench("T", 1100, 0, 100)},
		baselineOf(bench("T", 1000, 0, 100)),
		th,
	)
	if !a.HasMetric(MetricDuration) {
		t.Errorf("expected duration regression with 5%% threshold, got %+v", a)
	}
}

// TestEmptyBaseline tests that no baseline gives empty lists, not nil
func TestEmptyBaseline(t *testing.T) {
	a := Analyze([]record.Benchmark{bench("T", 1, 1, 1)}, baseline.Baseline{})
	if a.HasRegressions {
		t.Error("expected no regressions")
	}
	if a.Regressions == nil || a.Improvements == nil {
		t.Error("expected non-nil empty lists")
	}
}
