package report

import (
	"context"
	"fmt"
	"time"

	"perfwatch/internal/baseline"
	"perfwatch/internal/hostenv"
	"perfwatch/internal/recommend"
	"perfwatch/internal/record"
	"perfwatch/internal/regression"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Exporter receives every successfully persisted report.
type Exporter interface {
	Export(r *TestReport) error
}

// Options tunes report generation.
type Options struct {
	// PassThreshold is the per-benchmark success rate counted as a pass.
	PassThreshold float64
	// BaselineMinSuccessRate is the summary success rate required before
	// a run may replace the baseline.
	BaselineMinSuccessRate float64
	// Thresholds are the regression thresholds.
	Thresholds regression.Thresholds
	// KeepReports bounds the timestamped reports kept on disk; 0 keeps all.
	KeepReports int
}

// DefaultOptions returns the standard generation options.
func DefaultOptions() Options {
	return Options{
		PassThreshold:          95,
		BaselineMinSuccessRate: 95,
		Thresholds:             regression.DefaultThresholds(),
	}
}

// Builder generates, persists and accepts reports. It is not safe for
// concurrent use against the same directories.
type Builder struct {
	baselines *baseline.Store
	reports   *Store
	env       hostenv.Provider
	opts      Options
	exporters []Exporter
	logger    *zap.Logger
	now       func() time.Time
}

// NewBuilder creates a builder. A nil env uses the running host and a nil
// logger discards output.
func NewBuilder(baselines *baseline.Store, reports *Store, env hostenv.Provider, opts Options, logger *zap.Logger) *Builder {
	if env == nil {
		env = hostenv.Host{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		baselines: baselines,
		reports:   reports,
		env:       env,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// AddExporter registers an exporter called after the report is persisted.
func (b *Builder) AddExporter(e Exporter) {
	b.exporters = append(b.exporters, e)
}

// Generate builds the report for records and external results, persists
// it, and replaces the baseline when the run is clean. Any persistence
// failure is returned; the baseline is only touched after every report
// artifact has been written.
func (b *Builder) Generate(ctx context.Context, records []record.Benchmark, external []record.TestResult) (*Result, error) {
	r := &TestReport{
		ID:          uuid.NewString(),
		Timestamp:   b.now().UTC(),
		Environment: b.env.Snapshot(),
		Summary:     Summarize(records, external, b.opts.PassThreshold),
		Benchmarks:  records,
		TestResults: external,
	}

	base, ok := b.baselines.Load()
	if !ok {
		b.logger.Warn("No usable baseline, skipping comparison", zap.String("path", b.baselines.Path()))
	}
	r.RegressionAnalysis = regression.AnalyzeWith(records, base, b.opts.Thresholds)
	r.Recommendations = recommend.Generate(records, r.RegressionAnalysis)

	b.logger.Info("Report computed",
		zap.String("id", r.ID),
		zap.Int("tests", r.Summary.TotalTests),
		zap.Float64("success_rate", r.Summary.SuccessRate),
		zap.Int("regressions", len(r.RegressionAnalysis.Regressions)),
		zap.Int("improvements", len(r.RegressionAnalysis.Improvements)),
	)

	files, err := b.persist(ctx, r)
	if err != nil {
		return nil, err
	}
	result := &Result{Report: r, Files: files}

	if b.ShouldUpdateBaseline(r) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.baselines.Save(records); err != nil {
			return nil, err
		}
		result.BaselineUpdated = true
		b.logger.Info("Baseline updated", zap.String("path", b.baselines.Path()), zap.Int("benchmarks", len(records)))
	} else {
		b.logger.Info("Baseline kept",
			zap.Float64("success_rate", r.Summary.SuccessRate),
			zap.Bool("has_regressions", r.RegressionAnalysis.HasRegressions),
		)
	}

	if b.opts.KeepReports > 0 {
		deleted, err := b.reports.Prune(b.opts.KeepReports)
		if err != nil {
			b.logger.Warn("Report pruning failed", zap.Error(err))
		} else if deleted > 0 {
			b.logger.Debug("Pruned old reports", zap.Int("deleted", deleted))
		}
	}

	return result, nil
}

// ShouldUpdateBaseline reports whether r may become the new baseline: the
// run must meet the minimum success rate and show no regressions.
func (b *Builder) ShouldUpdateBaseline(r *TestReport) bool {
	return r.Summary.SuccessRate >= b.opts.BaselineMinSuccessRate && !r.RegressionAnalysis.HasRegressions
}

func (b *Builder) persist(ctx context.Context, r *TestReport) (Files, error) {
	var files Files

	rendered, err := Render(r)
	if err != nil {
		return files, err
	}

	steps := []struct {
		name string
		run  func() (string, error)
		dest *string
	}{
		{"report", func() (string, error) { return b.reports.Save(r) }, &files.Report},
		{"latest summary", func() (string, error) { return b.reports.SaveLatest(r) }, &files.Latest},
		{"rendered report", func() (string, error) { return b.reports.SaveRendered(rendered) }, &files.Rendered},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		path, err := step.run()
		if err != nil {
			return files, fmt.Errorf("cannot write %s: %w", step.name, err)
		}
		*step.dest = path
		b.logger.Debug("Wrote artifact", zap.String("kind", step.name), zap.String("path", path))
	}

	for _, e := range b.exporters {
		if err := e.Export(r); err != nil {
			return files, fmt.Errorf("cannot export report: %w", err)
		}
	}

	return files, nil
}
