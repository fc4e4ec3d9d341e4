package baseline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"perfwatch/internal/record"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genBenchmark generates random benchmarks
func genBenchmark() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),         // testName
		gen.Float64Range(0, 1e6), // duration
		gen.Float64Range(0, 1e3), // throughput
		gen.Float64Range(0, 1e9), // peak heap
		gen.Float64Range(0, 100), // success rate
		gen.IntRange(0, 64),      // concurrent peak load
	).Map(func(vals []interface{}) record.Benchmark {
		return record.Benchmark{
			TestName:   vals[0].(string),
			Duration:   vals[1].(float64),
			Throughput: vals[2].(float64),
			MemoryUsage: record.MemoryUsage{
				Peak: record.MemorySnapshot{HeapUsed: vals[3].(float64)},
			},
			SystemMetrics: record.SystemMetrics{
				SuccessRate:        vals[4].(float64),
				ConcurrentPeakLoad: vals[5].(int),
			},
		}
	})
}

// TestBaselineRoundTrip tests that saving and loading preserves every record
func TestBaselineRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("save then load preserves benchmarks", prop.ForAll(
		func(r record.Benchmark) bool {
			tmpDir, err := os.MkdirTemp("", "baseline-test-*")
			if err != nil {
				return false
			}
			defer os.RemoveAll(tmpDir)

			store := NewStore(tmpDir)

			if err := store.Save([]record.Benchmark{r}); err != nil {
				return false
			}

			loaded, ok := store.Load()
			if !ok {
				return false
			}
			if len(loaded.Benchmarks) != 1 {
				return false
			}

			got, found := loaded.Lookup(r.TestName)
			if !found {
				return false
			}
			return got.Duration == r.Duration &&
				got.Throughput == r.Throughput &&
				got.PeakHeap() == r.PeakHeap() &&
				got.SystemMetrics == r.SystemMetrics
		},
		genBenchmark(),
	))

	properties.TestingRun(t)
}

// TestSaveOverwritesWholesale tests that a save replaces, never merges
func TestSaveOverwritesWholesale(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("second save drops tests missing from it", prop.ForAll(
		func(first, second record.Benchmark) bool {
			if first.TestName == second.TestName {
				return true
			}

			tmpDir, err := os.MkdirTemp("", "baseline-test-*")
			if err != nil {
				return false
			}
			defer os.RemoveAll(tmpDir)

			store := NewStore(tmpDir)
			if err := store.Save([]record.Benchmark{first}); err != nil {
				return false
			}
			if err := store.Save([]record.Benchmark{second}); err != nil {
				return false
			}

			loaded, ok := store.Load()
			if !ok {
				return false
			}
			_, hasFirst := loaded.Lookup(first.TestName)
			_, hasSecond := loaded.Lookup(second.TestName)
			return !hasFirst && hasSecond
		},
		genBenchmark(),
		genBenchmark(),
	))

	properties.TestingRun(t)
}

// TestResolveDirRespectsEnvVar tests baseline directory configuration
func TestResolveDirRespectsEnvVar(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("ResolveDir uses PERFWATCH_BASELINE_DIR when set", prop.ForAll(
		func(customDir string) bool {
			environ := []string{"PERFWATCH_BASELINE_DIR=" + customDir}
			return ResolveDir(environ, "/fallback") == customDir
		},
		gen.Identifier().Map(func(s string) string {
			return "/custom/" + s
		}),
	))

	properties.Property("ResolveDir uses fallback when env var not set", prop.ForAll(
		func(otherVar string) bool {
			environ := []string{"OTHER_VAR=" + otherVar}
			return ResolveDir(environ, "/fallback") == "/fallback"
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

// TestResolveDirDefault tests that an empty fallback resolves to DefaultDir
func TestResolveDirDefault(t *testing.T) {
	if got := ResolveDir(nil, ""); got != DefaultDir() {
		t.Errorf("expected %s, got %s", DefaultDir(), got)
	}
}

// TestLoadMissing tests that a missing baseline is not an error
func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	b, ok := store.Load()
	if ok {
		t.Error("expected no baseline")
	}
	if !b.IsEmpty() {
		t.Error("expected empty baseline")
	}

	_, err := store.Read()
	if !errors.Is(err, ErrBaselineNotFound) {
		t.Errorf("expected ErrBaselineNotFound, got %v", err)
	}
}

// TestLoadCorrupt tests that an unparsable baseline is treated as absent
func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	if _, ok := store.Load(); ok {
		t.Error("expected corrupt baseline to load as absent")
	}

	_, err := store.Read()
	if err == nil || errors.Is(err, ErrBaselineNotFound) {
		t.Errorf("expected decode error, got %v", err)
	}
}

// TestSaveDedupesByTestName tests that the baseline holds one record per test
func TestSaveDedupesByTestName(t *testing.T) {
	store := NewStore(t.TempDir())

	records := []record.Benchmark{
		{TestName: "A", Duration: 1},
		{TestName: "B", Duration: 2},
		{TestName: "A", Duration: 3},
	}
	if err := store.Save(records); err != nil {
		t.Fatal(err)
	}

	loaded, ok := store.Load()
	if !ok {
		t.Fatal("expected baseline")
	}
	if len(loaded.Benchmarks) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded.Benchmarks))
	}
	if loaded.Benchmarks[0].TestName != "A" || loaded.Benchmarks[0].Duration != 3 {
		t.Errorf("expected last A record in first position, got %+v", loaded.Benchmarks[0])
	}
}

// TestClear tests baseline removal
func TestClear(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Clear(); !errors.Is(err, ErrBaselineNotFound) {
		t.Errorf("expected ErrBaselineNotFound, got %v", err)
	}

	if err := store.Save([]record.Benchmark{{TestName: "A"}}); err != nil {
		t.Fatal(err)
	}
	if !store.Exists() {
		t.Fatal("expected baseline to exist")
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if store.Exists() {
		t.Error("expected baseline to be removed")
	}
}

// TestDefaultDir tests that DefaultDir returns expected path
func TestDefaultDir(t *testing.T) {
	dir := DefaultDir()
	if dir == "" {
		t.Error("DefaultDir returned empty string")
	}
	if !filepath.IsAbs(dir) && dir != ".perfwatch/baseline" {
		t.Errorf("DefaultDir returned unexpected path: %s", dir)
	}
}
