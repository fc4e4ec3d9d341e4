package history

import (
	"perfwatch/internal/recommend"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Confidence grades a prediction by the number of points behind it.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

const (
	minPredictionPoints  = 5
	highConfidencePoints = 10

	// slopeEpsilon separates a flat fit from a moving one, in units per run.
	slopeEpsilon = 1e-9
)

// Prediction messages.
const (
	MsgInsufficientData    = "Insufficient data for prediction. At least 5 data points are required."
	MsgDecliningThroughput = "Throughput is projected to decline. Investigate recent changes affecting task processing."
	MsgGrowingMemory       = "Memory usage is projected to grow. Monitor for leaks and unbounded caches."
	MsgGrowingDuration     = "Test duration is projected to increase. Profile the slowest operations."
)

// Forecast is a linear extrapolation of one metric.
type Forecast struct {
	Current   float64 `json:"current"`
	Predicted float64 `json:"predicted"`
	Slope     float64 `json:"slope"` // change per run
	Trend     Trend   `json:"trend"`
}

// Prediction holds the forecasts for one test. Forecasts are nil when
// confidence is low.
type Prediction struct {
	TestName        string     `json:"testName"`
	Horizon         int        `json:"horizon"`
	Points          int        `json:"points"`
	Confidence      Confidence `json:"confidence"`
	Throughput      *Forecast  `json:"throughput,omitempty"`
	Memory          *Forecast  `json:"memory,omitempty"`
	Duration        *Forecast  `json:"duration,omitempty"`
	Recommendations []string   `json:"recommendations"`
}

// PredictPerformance fits a least-squares line through each metric of
// testName and extrapolates it horizon runs past the latest point. A
// horizon below 1 is treated as 1. Predicted values never go below zero.
// Predicted values are also checked against the report recommendation
// thresholds.
func (a *Analyzer) PredictPerformance(testName string, horizon int) Prediction {
	if horizon < 1 {
		horizon = 1
	}

	samples := a.samples(testName)
	p := Prediction{
		TestName:        testName,
		Horizon:         horizon,
		Points:          len(samples),
		Confidence:      ConfidenceLow,
		Recommendations: []string{},
	}
	if len(samples) < minPredictionPoints {
		p.Recommendations = append(p.Recommendations, MsgInsufficientData)
		return p
	}

	if len(samples) < highConfidencePoints {
		p.Confidence = ConfidenceMedium
	} else {
		p.Confidence = ConfidenceHigh
	}

	s := seriesOf(samples)
	p.Throughput = forecast(s.throughput, horizon, HigherIsBetter)
	p.Memory = forecast(s.memory, horizon, LowerIsBetter)
	p.Duration = forecast(s.duration, horizon, LowerIsBetter)

	if p.Throughput.Slope < -slopeEpsilon {
		p.Recommendations = append(p.Recommendations, MsgDecliningThroughput)
	}
	if p.Memory.Slope > slopeEpsilon {
		p.Recommendations = append(p.Recommendations, MsgGrowingMemory)
	}
	if p.Duration.Slope > slopeEpsilon {
		p.Recommendations = append(p.Recommendations, MsgGrowingDuration)
	}
	if p.Throughput.Predicted > 0 && p.Throughput.Predicted < recommend.LowThroughput {
		p.Recommendations = append(p.Recommendations, recommend.MsgLowTp)
	}
	if p.Memory.Predicted > recommend.HighPeakHeap {
		p.Recommendations = append(p.Recommendations, recommend.MsgHighMemory)
	}

	a.logger.Debug("Predicted performance",
		zap.String("test", testName),
		zap.Int("points", p.Points),
		zap.String("confidence", string(p.Confidence)))
	return p
}

// forecast fits ys against run index 0..n-1 and evaluates the line at
// n+horizon-1.
func forecast(ys []float64, horizon int, polarity Polarity) *Forecast {
	n := len(ys)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	predicted := alpha + beta*float64(n+horizon-1)
	if predicted < 0 {
		predicted = 0
	}

	return &Forecast{
		Current:   ys[n-1],
		Predicted: predicted,
		Slope:     beta,
		Trend:     CalculateTrend(ys, polarity),
	}
}
