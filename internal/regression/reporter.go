package regression

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatCLI formats the analysis for terminal output.
func FormatCLI(a Analysis) string {
	if len(a.Regressions) == 0 && len(a.Improvements) == 0 {
		return "✅ No significant changes against baseline\n"
	}

	var sb strings.Builder

	if a.HasRegressions {
		sb.WriteString(fmt.Sprintf("❌ Performance regressions detected: %d\n", len(a.Regressions)))
		for _, c := range a.Regressions {
			sb.WriteString(fmt.Sprintf("  - %s [%s]: %s → %s (%+.1f%%)\n",
				c.TestName, c.Metric, FormatValue(c.Metric, c.PreviousValue), FormatValue(c.Metric, c.CurrentValue), c.ChangePercent))
		}
	}

	if len(a.Improvements) > 0 {
		if a.HasRegressions {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("🚀 Performance improvements: %d\n", len(a.Improvements)))
		for _, c := range a.Improvements {
			sb.WriteString(fmt.Sprintf("  + %s [%s]: %s → %s (%+.1f%%)\n",
				c.TestName, c.Metric, FormatValue(c.Metric, c.PreviousValue), FormatValue(c.Metric, c.CurrentValue), c.ChangePercent))
		}
	}

	return sb.String()
}

// FormatCI formats the analysis as GitHub Actions annotations. Regressions
// are errors, improvements are notices.
func FormatCI(a Analysis) string {
	if len(a.Regressions) == 0 && len(a.Improvements) == 0 {
		return ""
	}

	var sb strings.Builder

	for _, c := range a.Regressions {
		sb.WriteString(fmt.Sprintf("::error title=Performance regression::%s %s changed %+.1f%% (%s → %s)\n",
			c.TestName, c.Metric, c.ChangePercent, FormatValue(c.Metric, c.PreviousValue), FormatValue(c.Metric, c.CurrentValue)))
	}
	for _, c := range a.Improvements {
		sb.WriteString(fmt.Sprintf("::notice title=Performance improvement::%s %s changed %+.1f%% (%s → %s)\n",
			c.TestName, c.Metric, c.ChangePercent, FormatValue(c.Metric, c.PreviousValue), FormatValue(c.Metric, c.CurrentValue)))
	}

	if a.HasRegressions {
		sb.WriteString(fmt.Sprintf("\n❌ %d performance regression(s) against baseline\n", len(a.Regressions)))
	}
	return sb.String()
}

// FormatJSON formats the analysis as JSON.
func FormatJSON(a Analysis) (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatValue renders a metric value with its unit.
func FormatValue(metric Metric, v float64) string {
	switch metric {
	case MetricThroughput:
		return fmt.Sprintf("%.2f tasks/s", v)
	case MetricDuration:
		return fmt.Sprintf("%.0fms", v)
	case MetricMemory:
		return fmt.Sprintf("%.1fMB", v/1024/1024)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
