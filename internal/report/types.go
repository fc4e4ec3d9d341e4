package report

import (
	"time"

	"perfwatch/internal/hostenv"
	"perfwatch/internal/record"
	"perfwatch/internal/regression"
)

// Summary is derived from the input benchmarks and external results.
type Summary struct {
	TotalTests  int     `json:"totalTests"`
	PassedTests int     `json:"passedTests"`
	FailedTests int     `json:"failedTests"`
	Duration    float64 `json:"duration"`    // ms, benchmarks only
	SuccessRate float64 `json:"successRate"` // 0-100

	ExternalDuration float64 `json:"externalDuration,omitempty"` // ms
}

// TestReport is the full outcome of one report generation.
type TestReport struct {
	ID                 string              `json:"id"`
	Timestamp          time.Time           `json:"timestamp"`
	Environment        hostenv.Environment `json:"environment"`
	Summary            Summary             `json:"summary"`
	Benchmarks         []record.Benchmark  `json:"benchmarks"`
	RegressionAnalysis regression.Analysis `json:"regressionAnalysis"`
	Recommendations    []string            `json:"recommendations"`
	TestResults        []record.TestResult `json:"testResults,omitempty"`
}

// LatestSummary is the compact view overwritten on every generation.
type LatestSummary struct {
	ReportID        string    `json:"reportId"`
	Timestamp       time.Time `json:"timestamp"`
	Summary         Summary   `json:"summary"`
	HasRegressions  bool      `json:"hasRegressions"`
	Recommendations []string  `json:"recommendations"`
}

// Latest returns the compact summary view of r.
func (r *TestReport) Latest() LatestSummary {
	return LatestSummary{
		ReportID:        r.ID,
		Timestamp:       r.Timestamp,
		Summary:         r.Summary,
		HasRegressions:  r.RegressionAnalysis.HasRegressions,
		Recommendations: r.Recommendations,
	}
}

// Files lists the artifacts written for a report.
type Files struct {
	Report   string `json:"report"`
	Latest   string `json:"latest"`
	Rendered string `json:"rendered"`
}

// Result is returned by Builder.Generate.
type Result struct {
	Report          *TestReport
	Files           Files
	BaselineUpdated bool
}

// Summarize computes the summary. A benchmark passes when its success rate
// is at least passThreshold; an external result passes when marked passed.
// Duration sums the benchmarks; external results add to ExternalDuration.
func Summarize(records []record.Benchmark, external []record.TestResult, passThreshold float64) Summary {
	s := Summary{TotalTests: len(records) + len(external)}

	for _, r := range records {
		if Passed(r, passThreshold) {
			s.PassedTests++
		}
		s.Duration += r.Duration
	}
	for _, tr := range external {
		if tr.Passed {
			s.PassedTests++
		}
		s.ExternalDuration += tr.Duration
	}

	s.FailedTests = s.TotalTests - s.PassedTests
	if s.TotalTests > 0 {
		s.SuccessRate = float64(s.PassedTests) / float64(s.TotalTests) * 100
	}
	return s
}

// Passed reports whether a benchmark counts as a passed test.
func Passed(r record.Benchmark, passThreshold float64) bool {
	return r.SystemMetrics.SuccessRate >= passThreshold
}
