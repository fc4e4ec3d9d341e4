package baseline

import (
	"time"

	"perfwatch/internal/record"
)

// Baseline is the last benchmark set accepted as the reference for
// regression comparison. It is replaced wholesale, never merged.
type Baseline struct {
	SavedAt    time.Time          `json:"savedAt"`
	Benchmarks []record.Benchmark `json:"benchmarks"`
}

// Lookup returns the baseline benchmark for testName.
func (b Baseline) Lookup(testName string) (record.Benchmark, bool) {
	for _, r := range b.Benchmarks {
		if r.TestName == testName {
			return r, true
		}
	}
	return record.Benchmark{}, false
}

// IsEmpty reports whether the baseline holds no benchmarks.
func (b Baseline) IsEmpty() bool {
	return len(b.Benchmarks) == 0
}
