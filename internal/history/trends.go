package history

// SeriesTrend pairs a raw series with its trend.
type SeriesTrend struct {
	Values []float64 `json:"values"`
	Trend  Trend     `json:"trend"`
}

// MetricTrends holds the per-metric series of one test.
type MetricTrends struct {
	Throughput  SeriesTrend `json:"throughput"`
	Duration    SeriesTrend `json:"duration"`
	Memory      SeriesTrend `json:"memory"`
	SuccessRate SeriesTrend `json:"successRate"`
}

// GeneratePerformanceTrends returns the trends of every test with at
// least three points in the window, keyed by test name.
func (a *Analyzer) GeneratePerformanceTrends() map[string]MetricTrends {
	out := make(map[string]MetricTrends)
	for _, name := range a.TestNames() {
		samples := a.samples(name)
		if len(samples) < trendMinPoints {
			continue
		}

		s := seriesOf(samples)
		out[name] = MetricTrends{
			Throughput:  SeriesTrend{Values: s.throughput, Trend: CalculateTrend(s.throughput, HigherIsBetter)},
			Duration:    SeriesTrend{Values: s.duration, Trend: CalculateTrend(s.duration, LowerIsBetter)},
			Memory:      SeriesTrend{Values: s.memory, Trend: CalculateTrend(s.memory, LowerIsBetter)},
			SuccessRate: SeriesTrend{Values: s.successRate, Trend: CalculateTrend(s.successRate, HigherIsBetter)},
		}
	}
	return out
}
