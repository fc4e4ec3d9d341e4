package recommend

import (
	"strings"

	"perfwatch/internal/record"
	"perfwatch/internal/regression"
)

// Rule thresholds applied to individual benchmarks.
const (
	LowThroughput        = 1.0               // tasks/sec
	HighPeakHeap         = 500 * 1024 * 1024 // bytes
	SlowResponseTime     = 10_000.0          // ms
	MinSuccessRate       = 95.0              // percent
	MinScalabilityLoad   = 8                 // concurrent tasks
	ScalabilityTestMatch = "Scalability"     // testName substring
)

// Advisory texts, in the order the rules are evaluated.
const (
	MsgRegressions  = "Performance regressions detected. Review recent changes that may have impacted performance."
	MsgThroughput   = "Throughput regression detected. Consider optimizing task processing algorithms or increasing parallelism."
	MsgMemory       = "Memory usage increased. Check for memory leaks or inefficient data structures."
	MsgLowTp        = "Low throughput detected in some tests. Consider optimizing agent coordination and task distribution."
	MsgHighMemory   = "High memory usage detected (>500MB). Consider implementing memory pooling or reducing object retention."
	MsgSlowOps      = "Slow response times detected (>10s). Consider implementing timeouts and breaking down complex tasks."
	MsgReliability  = "Success rate below 95% in some tests. Improve error handling and retry mechanisms."
	MsgScalability  = "Limited concurrent execution in scalability tests. Consider increasing concurrency limits or optimizing resource usage."
	MsgImprovements = "Performance improvements detected. Consider documenting the changes that led to these improvements."
	MsgAllGood      = "All performance metrics are within acceptable ranges. Continue monitoring for regressions."
)

// Generate returns advisory messages for the benchmarks and their
// regression analysis. All applicable rules fire; when none does a single
// all-clear message is returned.
func Generate(records []record.Benchmark, analysis regression.Analysis) []string {
	var out []string

	if analysis.HasRegressions {
		out = append(out, MsgRegressions)
		if analysis.HasMetric(regression.MetricThroughput) {
			out = append(out, MsgThroughput)
		}
		if analysis.HasMetric(regression.MetricMemory) {
			out = append(out, MsgMemory)
		}
	}

	if anyMatch(records, func(r record.Benchmark) bool { return r.Throughput > 0 && r.Throughput < LowThroughput }) {
		out = append(out, MsgLowTp)
	}
	if anyMatch(records, func(r record.Benchmark) bool { return r.PeakHeap() > HighPeakHeap }) {
		out = append(out, MsgHighMemory)
	}
	if anyMatch(records, func(r record.Benchmark) bool { return r.SystemMetrics.AverageResponseTime > SlowResponseTime }) {
		out = append(out, MsgSlowOps)
	}
	if anyMatch(records, func(r record.Benchmark) bool { return r.SystemMetrics.SuccessRate < MinSuccessRate }) {
		out = append(out, MsgReliability)
	}
	if anyMatch(records, isConstrainedScalabilityTest) {
		out = append(out, MsgScalability)
	}

	if len(analysis.Improvements) > 0 {
		out = append(out, MsgImprovements)
	}

	if len(out) == 0 {
		out = append(out, MsgAllGood)
	}
	return out
}

func isConstrainedScalabilityTest(r record.Benchmark) bool {
	return strings.Contains(r.TestName, ScalabilityTestMatch) &&
		r.SystemMetrics.ConcurrentPeakLoad < MinScalabilityLoad
}

func anyMatch(records []record.Benchmark, pred func(record.Benchmark) bool) bool {
	for _, r := range records {
		if pred(r) {
			return true
		}
	}
	return false
}
