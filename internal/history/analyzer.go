package history

import (
	"perfwatch/internal/record"
	"perfwatch/internal/report"

	"go.uber.org/zap"
)

// Default window capacities.
const (
	DefaultMaxBatches = 50
	DefaultMaxReports = 30
)

// Options sizes the rolling windows.
type Options struct {
	MaxBatches int `yaml:"max_batches"`
	MaxReports int `yaml:"max_reports"`
}

// DefaultOptions returns the default window capacities.
func DefaultOptions() Options {
	return Options{MaxBatches: DefaultMaxBatches, MaxReports: DefaultMaxReports}
}

// Analyzer keeps a rolling window of benchmark batches and reports and
// answers trend, anomaly and prediction queries against it. Every query
// recomputes from the current window. It is not safe for concurrent use.
type Analyzer struct {
	batches *Ring[[]record.Benchmark]
	reports *Ring[report.TestReport]
	logger  *zap.Logger
}

// NewAnalyzer creates an empty analyzer. Zero capacities use the defaults;
// a nil logger discards output.
func NewAnalyzer(opts Options, logger *zap.Logger) *Analyzer {
	if opts.MaxBatches <= 0 {
		opts.MaxBatches = DefaultMaxBatches
	}
	if opts.MaxReports <= 0 {
		opts.MaxReports = DefaultMaxReports
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		batches: NewRing[[]record.Benchmark](opts.MaxBatches),
		reports: NewRing[report.TestReport](opts.MaxReports),
		logger:  logger,
	}
}

// Ingest appends a batch, evicting the oldest batch when full. The batch
// is copied so later changes by the caller are not observed.
func (a *Analyzer) Ingest(records []record.Benchmark) {
	batch := append([]record.Benchmark(nil), records...)
	if a.batches.Push(batch) {
		a.logger.Debug("Evicted oldest benchmark batch", zap.Int("capacity", a.batches.Cap()))
	}
}

// AddReport appends a report, evicting the oldest report when full.
func (a *Analyzer) AddReport(r report.TestReport) {
	if a.reports.Push(r) {
		a.logger.Debug("Evicted oldest report", zap.Int("capacity", a.reports.Cap()))
	}
}

// Batches returns the stored batches, oldest first.
func (a *Analyzer) Batches() [][]record.Benchmark {
	return a.batches.Items()
}

// Reports returns the stored reports, oldest first.
func (a *Analyzer) Reports() []report.TestReport {
	return a.reports.Items()
}

// BatchCount returns the number of stored batches.
func (a *Analyzer) BatchCount() int {
	return a.batches.Len()
}

// ReportCount returns the number of stored reports.
func (a *Analyzer) ReportCount() int {
	return a.reports.Len()
}

// samples returns every stored record for testName, oldest first.
func (a *Analyzer) samples(testName string) []record.Benchmark {
	var out []record.Benchmark
	for i := 0; i < a.batches.Len(); i++ {
		for _, r := range a.batches.At(i) {
			if r.TestName == testName {
				out = append(out, r)
			}
		}
	}
	return out
}

// TestNames returns the distinct test names in the window in first-seen order.
func (a *Analyzer) TestNames() []string {
	seen := make(map[string]bool)
	var names []string
	for i := 0; i < a.batches.Len(); i++ {
		for _, r := range a.batches.At(i) {
			if !seen[r.TestName] {
				seen[r.TestName] = true
				names = append(names, r.TestName)
			}
		}
	}
	return names
}

type series struct {
	throughput   []float64
	duration     []float64
	memory       []float64
	successRate  []float64
	responseTime []float64
}

func seriesOf(samples []record.Benchmark) series {
	var s series
	for _, r := range samples {
		s.throughput = append(s.throughput, r.Throughput)
		s.duration = append(s.duration, r.Duration)
		s.memory = append(s.memory, r.PeakHeap())
		s.successRate = append(s.successRate, r.SystemMetrics.SuccessRate)
		s.responseTime = append(s.responseTime, r.SystemMetrics.AverageResponseTime)
	}
	return s
}
