package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"perfwatch/internal/artifact"
	"perfwatch/internal/record"
)

// ErrBaselineNotFound is returned when no baseline has been saved yet.
var ErrBaselineNotFound = errors.New("baseline not found")

// FileName is the name of the baseline file inside the store directory.
const FileName = "baseline.json"

// Store manages baseline persistence. It provides no locking; a single
// writer per directory is assumed.
type Store struct {
	Dir string // Base directory for the baseline file
}

// NewStore creates a store with the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultDir returns the default baseline directory (~/.perfwatch/baseline).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".perfwatch/baseline"
	}
	return filepath.Join(home, ".perfwatch", "baseline")
}

// ResolveDir returns the baseline directory from env var or fallback.
// An empty fallback means DefaultDir.
func ResolveDir(environ []string, fallback string) string {
	for _, env := range environ {
		if strings.HasPrefix(env, "PERFWATCH_BASELINE_DIR=") {
			return strings.TrimPrefix(env, "PERFWATCH_BASELINE_DIR=")
		}
	}
	if fallback != "" {
		return fallback
	}
	return DefaultDir()
}

// Path returns the baseline file path.
func (s *Store) Path() string {
	return filepath.Join(s.Dir, FileName)
}

// Save overwrites the baseline with records. The file is written to a
// temporary sibling and renamed into place so readers never observe a
// partial baseline.
func (s *Store) Save(records []record.Benchmark) error {
	b := Baseline{
		SavedAt:    time.Now().UTC(),
		Benchmarks: dedupe(records),
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	if err := artifact.WriteFile(s.Path(), data); err != nil {
		return fmt.Errorf("cannot save baseline: %w", err)
	}
	return nil
}

// Load returns the stored baseline. A missing or unreadable baseline is
// reported as (empty, false) since the first run has none.
func (s *Store) Load() (Baseline, bool) {
	b, err := s.Read()
	if err != nil {
		return Baseline{}, false
	}
	return b, true
}

// Read is the strict form of Load. It returns ErrBaselineNotFound when no
// baseline exists and the decode error when the file is corrupt.
func (s *Store) Read() (Baseline, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return Baseline{}, ErrBaselineNotFound
		}
		return Baseline{}, err
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{}, fmt.Errorf("corrupt baseline %s: %w", s.Path(), err)
	}

	return b, nil
}

// Clear removes the baseline.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return ErrBaselineNotFound
		}
		return err
	}

	return nil
}

// Exists checks if a baseline exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// dedupe keeps the last record for every testName, preserving first-seen order.
func dedupe(records []record.Benchmark) []record.Benchmark {
	index := make(map[string]int, len(records))
	out := make([]record.Benchmark, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.TestName]; ok {
			out[i] = r
			continue
		}
		index[r.TestName] = len(out)
		out = append(out, r)
	}
	return out
}
