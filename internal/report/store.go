package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"perfwatch/internal/artifact"
)

// ErrReportNotFound is returned when a report file doesn't exist.
var ErrReportNotFound = errors.New("report not found")

const (
	reportPrefix = "report-"
	reportSuffix = ".json"
	idTagLen     = 8

	// LatestFile is overwritten with the compact summary on every run.
	LatestFile = "latest-summary.json"
	// RenderedFile is overwritten with the human-readable report.
	RenderedFile = "report.md"

	// TimestampLayout names timestamped report files; it sorts lexically.
	TimestampLayout = "2006-01-02T15-04-05.000Z"
)

// Store manages report persistence in an output directory.
type Store struct {
	Dir string // Output directory for reports
}

// NewStore creates a store with the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultDir returns the default report directory (./perf-reports).
func DefaultDir() string {
	return "perf-reports"
}

// ResolveDir returns the output directory from env var or fallback.
// An empty fallback means DefaultDir.
func ResolveDir(environ []string, fallback string) string {
	for _, env := range environ {
		if strings.HasPrefix(env, "PERFWATCH_OUTPUT_DIR=") {
			return strings.TrimPrefix(env, "PERFWATCH_OUTPUT_DIR=")
		}
	}
	if fallback != "" {
		return fallback
	}
	return DefaultDir()
}

// Save writes the full report to its timestamped file and returns the path.
func (s *Store) Save(r *TestReport) (string, error) {
	path := s.Path(r.Timestamp, r.ID)
	if err := artifact.WriteJSON(path, r); err != nil {
		return "", err
	}
	return path, nil
}

// SaveLatest overwrites the latest summary file and returns the path.
func (s *Store) SaveLatest(r *TestReport) (string, error) {
	path := filepath.Join(s.Dir, LatestFile)
	if err := artifact.WriteJSON(path, r.Latest()); err != nil {
		return "", err
	}
	return path, nil
}

// SaveRendered overwrites the human-readable report and returns the path.
func (s *Store) SaveRendered(content []byte) (string, error) {
	path := filepath.Join(s.Dir, RenderedFile)
	if err := artifact.WriteFile(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a report from a file path.
func (s *Store) Load(path string) (*TestReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	var r TestReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// LoadLatest reads the latest summary file.
func (s *Store) LoadLatest() (LatestSummary, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, LatestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return LatestSummary{}, ErrReportNotFound
		}
		return LatestSummary{}, err
	}

	var l LatestSummary
	if err := json.Unmarshal(data, &l); err != nil {
		return LatestSummary{}, err
	}
	return l, nil
}

// List returns the paths of all timestamped reports, oldest first.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	paths := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, reportPrefix) || !strings.HasSuffix(name, reportSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(s.Dir, name))
	}

	sort.Strings(paths)
	return paths, nil
}

// Prune removes all but the newest keep timestamped reports.
// Returns the number of reports deleted.
func (s *Store) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	paths, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(paths) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, path := range paths[:len(paths)-keep] {
		if err := os.Remove(path); err == nil {
			deleted++
		}
	}

	return deleted, nil
}

// Path returns the file path for a report generated at ts with the given
// ID. The name starts with the timestamp so paths sort chronologically; a
// short ID tag keeps reports from the same millisecond apart.
func (s *Store) Path(ts time.Time, id string) string {
	name := reportPrefix + ts.UTC().Format(TimestampLayout)
	if tag := idTag(id); tag != "" {
		name += "-" + tag
	}
	return filepath.Join(s.Dir, name+reportSuffix)
}

// idTag returns up to idTagLen filename-safe characters of id.
func idTag(id string) string {
	var sb strings.Builder
	for _, c := range id {
		if sb.Len() == idTagLen {
			break
		}
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
