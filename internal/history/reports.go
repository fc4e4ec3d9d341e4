package history

// ReportHistory summarizes the reports window.
type ReportHistory struct {
	Reports            int     `json:"reports"`
	RegressionRuns     int     `json:"regressionRuns"`
	AverageSuccessRate float64 `json:"averageSuccessRate"`
	SuccessRateTrend   Trend   `json:"successRateTrend"`
	DurationTrend      Trend   `json:"durationTrend"`
}

// AnalyzeReportHistory aggregates the stored report summaries.
func (a *Analyzer) AnalyzeReportHistory() ReportHistory {
	reports := a.reports.Items()
	h := ReportHistory{
		Reports:          len(reports),
		SuccessRateTrend: TrendStable,
		DurationTrend:    TrendStable,
	}
	if len(reports) == 0 {
		return h
	}

	success := make([]float64, len(reports))
	duration := make([]float64, len(reports))
	for i, r := range reports {
		success[i] = r.Summary.SuccessRate
		duration[i] = r.Summary.Duration
		if r.RegressionAnalysis.HasRegressions {
			h.RegressionRuns++
		}
	}

	h.AverageSuccessRate = mean(success)
	h.SuccessRateTrend = CalculateTrend(success, HigherIsBetter)
	h.DurationTrend = CalculateTrend(duration, LowerIsBetter)
	return h
}
