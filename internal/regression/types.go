package regression

// Metric names a compared benchmark measurement.
type Metric string

const (
	MetricThroughput Metric = "throughput" // tasks/sec, higher is better
	MetricDuration   Metric = "duration"   // ms, lower is better
	MetricMemory     Metric = "memory"     // peak heap bytes, lower is better
)

// Change is one metric movement beyond its threshold.
type Change struct {
	TestName      string  `json:"testName"`
	Metric        Metric  `json:"metric"`
	PreviousValue float64 `json:"previousValue"`
	CurrentValue  float64 `json:"currentValue"`
	ChangePercent float64 `json:"changePercent"`
}

// Analysis contains the baseline comparison result.
type Analysis struct {
	HasRegressions bool     `json:"hasRegressions"`
	Regressions    []Change `json:"regressions"`
	Improvements   []Change `json:"improvements"`
}

// HasMetric reports whether any regression concerns metric.
func (a Analysis) HasMetric(metric Metric) bool {
	for _, c := range a.Regressions {
		if c.Metric == metric {
			return true
		}
	}
	return false
}

// Threshold bounds the change percent of one metric. Regression and
// Improvement are signed percentages: for throughput a regression is a
// change below Regression, for duration and memory above it.
type Threshold struct {
	Regression  float64 `yaml:"regression" json:"regression"`
	Improvement float64 `yaml:"improvement" json:"improvement"`
}

// Thresholds holds per-metric thresholds.
type Thresholds struct {
	Throughput Threshold `yaml:"throughput" json:"throughput"`
	Duration   Threshold `yaml:"duration" json:"duration"`
	Memory     Threshold `yaml:"memory" json:"memory"`
}

// DefaultThresholds returns the standard noise tolerances. Regressions get
// a looser bound than improvements.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Throughput: Threshold{Regression: -10, Improvement: 10},
		Duration:   Threshold{Regression: 20, Improvement: -10},
		Memory:     Threshold{Regression: 25, Improvement: -15},
	}
}
