package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"perfwatch/internal/artifact"
	"perfwatch/internal/record"
	"perfwatch/internal/report"

	"go.uber.org/zap"
)

// state is the on-disk form of both windows, oldest first.
type state struct {
	Batches [][]record.Benchmark `json:"batches"`
	Reports []report.TestReport  `json:"reports"`
}

// Save writes both windows to path atomically.
func (a *Analyzer) Save(path string) error {
	st := state{Batches: a.batches.Items(), Reports: a.reports.Items()}
	if err := artifact.WriteJSON(path, st); err != nil {
		return fmt.Errorf("cannot save history: %w", err)
	}
	return nil
}

// LoadFile restores an analyzer from path. A missing file yields an empty
// analyzer, and so does an undecodable one after a warning, since the file
// is rewritten on the next Save. When the file holds more entries than the capacities allow,
// the oldest are evicted.
func LoadFile(path string, opts Options, logger *zap.Logger) (*Analyzer, error) {
	a := NewAnalyzer(opts, logger)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.logger.Debug("No history file, starting empty", zap.String("path", path))
			return a, nil
		}
		return nil, fmt.Errorf("cannot read history: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		a.logger.Warn("Corrupt history, starting empty", zap.String("path", path), zap.Error(err))
		return a, nil
	}

	for _, b := range st.Batches {
		a.Ingest(b)
	}
	for _, r := range st.Reports {
		a.AddReport(r)
	}

	a.logger.Debug("Loaded history",
		zap.String("path", path),
		zap.Int("batches", a.BatchCount()),
		zap.Int("reports", a.ReportCount()))
	return a, nil
}
