package history

import "math"

// SystemHealth describes the most recent batch.
type SystemHealth struct {
	Tests              int     `json:"tests"`
	AverageAgents      float64 `json:"averageAgents"`
	ActiveAgents       int     `json:"activeAgents"`
	FailedAgents       int     `json:"failedAgents"`
	AverageSuccessRate float64 `json:"averageSuccessRate"`
	PeakConcurrency    int     `json:"peakConcurrency"`
	AverageConcurrency float64 `json:"averageConcurrency"`
}

// AnalyzeSystemHealth aggregates the most recent batch only. Agent counts
// are estimates: the mean agent count per test split by the mean success
// rate. An empty history yields the zero value.
func (a *Analyzer) AnalyzeSystemHealth() SystemHealth {
	batch, ok := a.batches.Last()
	if !ok || len(batch) == 0 {
		return SystemHealth{}
	}

	var agents, success, load []float64
	peak := 0
	for _, r := range batch {
		agents = append(agents, float64(len(r.AgentMetrics)))
		success = append(success, r.SystemMetrics.SuccessRate)
		load = append(load, float64(r.SystemMetrics.ConcurrentPeakLoad))
		if r.SystemMetrics.ConcurrentPeakLoad > peak {
			peak = r.SystemMetrics.ConcurrentPeakLoad
		}
	}

	h := SystemHealth{
		Tests:              len(batch),
		AverageAgents:      mean(agents),
		AverageSuccessRate: mean(success),
		PeakConcurrency:    peak,
		AverageConcurrency: mean(load),
	}

	total := int(math.Round(h.AverageAgents))
	h.ActiveAgents = int(math.Round(h.AverageAgents * h.AverageSuccessRate / 100))
	if h.ActiveAgents > total {
		h.ActiveAgents = total
	}
	h.FailedAgents = total - h.ActiveAgents
	if h.FailedAgents < 0 {
		h.FailedAgents = 0
	}

	return h
}
