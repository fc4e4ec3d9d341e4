package history

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Trend is the directional classification of a series.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
	TrendStable    Trend = "stable"
)

// Polarity tells CalculateTrend which direction is good for a metric.
type Polarity int

const (
	// HigherIsBetter suits throughput and success rate.
	HigherIsBetter Polarity = iota
	// LowerIsBetter suits duration, latency and memory.
	LowerIsBetter
)

const (
	trendWindow     = 3
	trendMinPoints  = 3
	stableChangePct = 5.0
)

// CalculateTrend compares the mean of the last three points with the mean
// of the up to three points before them. Moves under 5% are stable.
func CalculateTrend(series []float64, polarity Polarity) Trend {
	n := len(series)
	if n < trendMinPoints {
		return TrendStable
	}

	recent := series[n-trendWindow:]
	previous := series[max(0, n-2*trendWindow) : n-trendWindow]
	if len(previous) == 0 {
		return TrendStable
	}

	prevMean := mean(previous)
	if prevMean == 0 {
		return TrendStable
	}
	change := (mean(recent) - prevMean) / prevMean * 100
	if math.Abs(change) < stableChangePct {
		return TrendStable
	}

	increased := change > 0
	if increased == (polarity == HigherIsBetter) {
		return TrendImproving
	}
	return TrendDegrading
}

// CalculatePercentile returns the nearest-rank percentile p (0-100) of
// values. Empty input yields 0.
func CalculatePercentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
