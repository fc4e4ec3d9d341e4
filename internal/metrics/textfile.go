package metrics

import (
	"os"
	"path/filepath"

	"perfwatch/internal/report"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FileName is the default textfile written next to the reports.
const FileName = "perfwatch.prom"

// TextfileExporter writes the latest report as Prometheus gauges in the
// text exposition format, for pickup by a node_exporter textfile collector.
type TextfileExporter struct {
	Path string
}

// NewTextfileExporter creates an exporter writing to dir/perfwatch.prom.
func NewTextfileExporter(dir string) *TextfileExporter {
	return &TextfileExporter{Path: filepath.Join(dir, FileName)}
}

// Export implements report.Exporter.
func (e *TextfileExporter) Export(r *report.TestReport) error {
	if err := os.MkdirAll(filepath.Dir(e.Path), 0755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(e.Path, Collect(r))
}

// Collect builds a registry holding the gauges for r.
func Collect(r *report.TestReport) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	factory.NewGauge(prometheus.GaugeOpts{
		Name: "perfwatch_report_timestamp_seconds",
		Help: "Unix time the last report was generated.",
	}).Set(float64(r.Timestamp.Unix()))

	tests := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "perfwatch_tests",
		Help: "Tests in the last report by outcome.",
	}, []string{"outcome"})
	tests.WithLabelValues("passed").Set(float64(r.Summary.PassedTests))
	tests.WithLabelValues("failed").Set(float64(r.Summary.FailedTests))

	factory.NewGauge(prometheus.GaugeOpts{
		Name: "perfwatch_success_rate_percent",
		Help: "Summary success rate of the last report.",
	}).Set(r.Summary.SuccessRate)

	changes := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "perfwatch_baseline_changes",
		Help: "Baseline comparison entries in the last report by kind and metric.",
	}, []string{"kind", "metric"})
	for _, c := range r.RegressionAnalysis.Regressions {
		changes.WithLabelValues("regression", string(c.Metric)).Inc()
	}
	for _, c := range r.RegressionAnalysis.Improvements {
		changes.WithLabelValues("improvement", string(c.Metric)).Inc()
	}

	duration := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "perfwatch_benchmark_duration_milliseconds",
		Help: "Benchmark duration in the last report.",
	}, []string{"test"})
	throughput := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "perfwatch_benchmark_throughput",
		Help: "Benchmark throughput in tasks per second; absent when not applicable.",
	}, []string{"test"})
	heap := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "perfwatch_benchmark_peak_heap_bytes",
		Help: "Benchmark peak heap usage in the last report.",
	}, []string{"test"})

	for _, b := range r.Benchmarks {
		duration.WithLabelValues(b.TestName).Set(b.Duration)
		heap.WithLabelValues(b.TestName).Set(b.PeakHeap())
		if b.Throughput > 0 {
			throughput.WithLabelValues(b.TestName).Set(b.Throughput)
		}
	}

	return reg
}
