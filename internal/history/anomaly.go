package history

import "fmt"

// Severity grades an anomaly.
type Severity string

const (
	SeveritySevere      Severity = "severe"
	SeveritySignificant Severity = "significant"
	SeverityWarning     Severity = "warning"
)

// AnomalyKind names the rule an anomaly violated.
type AnomalyKind string

const (
	AnomalyThroughputDrop  AnomalyKind = "throughput_drop"
	AnomalyMemoryGrowth    AnomalyKind = "memory_growth"
	AnomalyLowSuccessRate  AnomalyKind = "low_success_rate"
	AnomalyLatencyVariance AnomalyKind = "latency_variance"
)

// Anomaly thresholds. They are absolute magnitudes, independent of the
// baseline regression thresholds.
const (
	SevereThroughputDrop      = 50.0  // percent
	SignificantThroughputDrop = 25.0  // percent
	SevereMemoryGrowth        = 100.0 // percent
	SignificantMemoryGrowth   = 50.0  // percent
	LowSuccessRate            = 80.0  // percent
	LatencyVarianceFactor     = 5.0   // p99 over average
)

// Anomaly is one triggered rule.
type Anomaly struct {
	Kind     AnomalyKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Value    float64     `json:"value"`
	Message  string      `json:"message"`
}

// DetectAnomalies applies the anomaly rules to the window's metrics for
// testName. The result is empty when nothing triggered or there is no data.
func (a *Analyzer) DetectAnomalies(testName string) []Anomaly {
	pm, ok := a.AnalyzePerformanceMetrics(testName)
	if !ok {
		return []Anomaly{}
	}

	anomalies := []Anomaly{}

	drop := -pm.Throughput.ChangePercent
	switch {
	case drop > SevereThroughputDrop:
		anomalies = append(anomalies, Anomaly{
			Kind: AnomalyThroughputDrop, Severity: SeveritySevere, Value: drop,
			Message: fmt.Sprintf("Severe throughput drop: %.1f%% below first recorded run", drop),
		})
	case drop > SignificantThroughputDrop:
		anomalies = append(anomalies, Anomaly{
			Kind: AnomalyThroughputDrop, Severity: SeveritySignificant, Value: drop,
			Message: fmt.Sprintf("Significant throughput drop: %.1f%% below first recorded run", drop),
		})
	}

	growth := pm.Memory.GrowthPercent
	switch {
	case growth > SevereMemoryGrowth:
		anomalies = append(anomalies, Anomaly{
			Kind: AnomalyMemoryGrowth, Severity: SeveritySevere, Value: growth,
			Message: fmt.Sprintf("Severe memory growth: %.1f%% above first recorded run", growth),
		})
	case growth > SignificantMemoryGrowth:
		anomalies = append(anomalies, Anomaly{
			Kind: AnomalyMemoryGrowth, Severity: SeveritySignificant, Value: growth,
			Message: fmt.Sprintf("Significant memory growth: %.1f%% above first recorded run", growth),
		})
	}

	if pm.Reliability.SuccessRate < LowSuccessRate {
		anomalies = append(anomalies, Anomaly{
			Kind: AnomalyLowSuccessRate, Severity: SeverityWarning, Value: pm.Reliability.SuccessRate,
			Message: fmt.Sprintf("Low success rate: %.1f%%", pm.Reliability.SuccessRate),
		})
	}

	if pm.Latency.Average > 0 && pm.Latency.P99 > LatencyVarianceFactor*pm.Latency.Average {
		ratio := pm.Latency.P99 / pm.Latency.Average
		anomalies = append(anomalies, Anomaly{
			Kind: AnomalyLatencyVariance, Severity: SeverityWarning, Value: ratio,
			Message: fmt.Sprintf("High latency variance: p99 is %.1fx the average response time", ratio),
		})
	}

	return anomalies
}

// Messages returns the anomaly texts in order.
func Messages(anomalies []Anomaly) []string {
	out := make([]string, len(anomalies))
	for i, an := range anomalies {
		out[i] = an.Message
	}
	return out
}
