package history

const bytesPerMB = 1024 * 1024

// ThroughputMetrics compares the latest throughput with the first point
// in the window.
type ThroughputMetrics struct {
	Current       float64 `json:"current"`
	Baseline      float64 `json:"baseline"`
	ChangePercent float64 `json:"changePercent"`
	Trend         Trend   `json:"trend"`
}

// LatencyMetrics summarizes averageResponseTime across the window.
type LatencyMetrics struct {
	Average float64 `json:"average"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
}

// MemoryMetrics summarizes peak heap across the window.
type MemoryMetrics struct {
	Peak          float64 `json:"peak"`
	Average       float64 `json:"average"`
	GrowthPercent float64 `json:"growthPercent"`
	Efficiency    float64 `json:"efficiency"` // tasks per peak MB of the latest run
	Trend         Trend   `json:"trend"`
}

// ReliabilityMetrics describes the latest success rate.
type ReliabilityMetrics struct {
	SuccessRate float64 `json:"successRate"`
	ErrorRate   float64 `json:"errorRate"`
	Trend       Trend   `json:"trend"`
}

// PerformanceMetrics is the across-batch view of one test.
type PerformanceMetrics struct {
	TestName    string             `json:"testName"`
	Samples     int                `json:"samples"`
	Throughput  ThroughputMetrics  `json:"throughput"`
	Latency     LatencyMetrics     `json:"latency"`
	Memory      MemoryMetrics      `json:"memory"`
	Reliability ReliabilityMetrics `json:"reliability"`
}

// AnalyzePerformanceMetrics gathers every stored record for testName and
// summarizes it. It returns false when the window holds no such record.
func (a *Analyzer) AnalyzePerformanceMetrics(testName string) (PerformanceMetrics, bool) {
	samples := a.samples(testName)
	if len(samples) == 0 {
		return PerformanceMetrics{TestName: testName}, false
	}

	s := seriesOf(samples)
	latest := samples[len(samples)-1]

	pm := PerformanceMetrics{
		TestName: testName,
		Samples:  len(samples),
		Throughput: ThroughputMetrics{
			Current:       latest.Throughput,
			Baseline:      samples[0].Throughput,
			ChangePercent: percentChange(samples[0].Throughput, latest.Throughput),
			Trend:         CalculateTrend(s.throughput, HigherIsBetter),
		},
		Latency: LatencyMetrics{
			Average: mean(s.responseTime),
			P95:     CalculatePercentile(s.responseTime, 95),
			P99:     CalculatePercentile(s.responseTime, 99),
		},
		Memory: MemoryMetrics{
			Peak:          maxOf(s.memory),
			Average:       mean(s.memory),
			GrowthPercent: percentChange(samples[0].PeakHeap(), latest.PeakHeap()),
			Trend:         CalculateTrend(s.memory, LowerIsBetter),
		},
		Reliability: ReliabilityMetrics{
			SuccessRate: latest.SystemMetrics.SuccessRate,
			ErrorRate:   100 - latest.SystemMetrics.SuccessRate,
			Trend:       CalculateTrend(s.successRate, HigherIsBetter),
		},
	}

	if peakMB := latest.PeakHeap() / bytesPerMB; peakMB > 0 {
		pm.Memory.Efficiency = float64(latest.SystemMetrics.TotalTasks) / peakMB
	}

	return pm, true
}
