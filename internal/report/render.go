package report

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"perfwatch/internal/regression"

	"github.com/dustin/go-humanize"
)

//go:embed templates/report.md.tmpl
var templates embed.FS

var reportTemplate = template.Must(
	template.New("report.md.tmpl").Funcs(template.FuncMap{
		"datetime":   func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
		"bytes":      func(v uint64) string { return humanize.IBytes(v) },
		"heap":       formatHeap,
		"pct":        func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"change":     func(v float64) string { return fmt.Sprintf("%+.1f%%", v) },
		"ms":         formatMillis,
		"throughput": formatThroughput,
		"value":      regression.FormatValue,
	}).ParseFS(templates, "templates/report.md.tmpl"),
)

// Render produces the Markdown form of the report.
func Render(r *TestReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("cannot render report: %w", err)
	}
	return buf.Bytes(), nil
}

// formatHeap renders a heap size; negative sizes render as 0 B.
func formatHeap(v float64) string {
	if v < 0 {
		v = 0
	}
	return humanize.IBytes(uint64(v))
}

func formatMillis(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.2fs", v/1000)
	}
	return fmt.Sprintf("%.0fms", v)
}

func formatThroughput(v float64) string {
	if v <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f tasks/s", v)
}
