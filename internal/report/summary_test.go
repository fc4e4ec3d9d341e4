package report

import (
	"testing"

	"perfwatch/internal/record"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPassedMatchesSuccessRate tests that a benchmark passes iff its success rate is at least 95
func TestPassedMatchesSuccessRate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("passed equals successRate >= 95", prop.ForAll(
		func(rate float64) bool {
			r := record.Benchmark{TestName: "T", SystemMetrics: record.SystemMetrics{SuccessRate: rate}}
			return Passed(r, 95) == (rate >= 95)
		},
		gen.Float64Range(0, 100),
	))

	properties.Property("summary counts add up", prop.ForAll(
		func(rates []float64) bool {
			records := make([]record.Benchmark, len(rates))
			want := 0
			for i, rate := range rates {
				records[i] = record.Benchmark{TestName: "T", Duration: 10, SystemMetrics: record.SystemMetrics{SuccessRate: rate}}
				if rate >= 95 {
					want++
				}
			}

			s := Summarize(records, nil, 95)
			if s.TotalTests != len(rates) || s.PassedTests != want || s.PassedTests+s.FailedTests != s.TotalTests {
				return false
			}
			if s.Duration != float64(10*len(rates)) {
				return false
			}
			if len(rates) == 0 {
				return s.SuccessRate == 0
			}
			return s.SuccessRate >= 0 && s.SuccessRate <= 100
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
	))

	properties.Property("external durations stay out of duration", prop.ForAll(
		func(n, m int) bool {
			records := make([]record.Benchmark, n)
			for i := range records {
				records[i] = record.Benchmark{TestName: "T", Duration: 10}
			}
			external := make([]record.TestResult, m)
			for i := range external {
				external[i] = record.TestResult{Name: "E", Passed: true, Duration: 25}
			}

			s := Summarize(records, external, 95)
			return s.TotalTests == n+m &&
				s.Duration == float64(10*n) &&
				s.ExternalDuration == float64(25*m)
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

// TestSummarizeBoundary tests the exact pass threshold
func TestSummarizeBoundary(t *testing.T) {
	records := []record.Benchmark{
		{TestName: "A", SystemMetrics: record.SystemMetrics{SuccessRate: 95}},
		{TestName: "B", SystemMetrics: record.SystemMetrics{SuccessRate: 94.99}},
	}

	s := Summarize(records, nil, 95)
	if s.PassedTests != 1 || s.FailedTests != 1 {
		t.Errorf("expected 1 passed and 1 failed, got %+v", s)
	}
	if s.SuccessRate != 50 {
		t.Errorf("expected 50%% success rate, got %.2f", s.SuccessRate)
	}
}
