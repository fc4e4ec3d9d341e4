package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoRecords is returned when an input file holds no benchmarks.
var ErrNoRecords = errors.New("no benchmark records")

// MemorySnapshot is a point-in-time heap reading in bytes.
type MemorySnapshot struct {
	HeapUsed  float64 `json:"heapUsed"`
	HeapTotal float64 `json:"heapTotal,omitempty"`
	RSS       float64 `json:"rss,omitempty"`
	External  float64 `json:"external,omitempty"`
}

// MemoryUsage holds the heap readings taken during a test execution.
type MemoryUsage struct {
	Initial MemorySnapshot `json:"initial"`
	Peak    MemorySnapshot `json:"peak"`
	Final   MemorySnapshot `json:"final"`
}

// AgentMetrics describes one agent's share of a test execution.
type AgentMetrics struct {
	AgentID         string  `json:"agentId"`
	TasksCompleted  int     `json:"tasksCompleted"`
	AverageTaskTime float64 `json:"averageTaskTime"` // ms
	ErrorCount      int     `json:"errorCount"`
}

// SystemMetrics aggregates a test execution across all agents.
type SystemMetrics struct {
	TotalTasks          int     `json:"totalTasks"`
	SuccessRate         float64 `json:"successRate"`         // 0-100
	AverageResponseTime float64 `json:"averageResponseTime"` // ms
	ConcurrentPeakLoad  int     `json:"concurrentPeakLoad"`
}

// Benchmark is one measurement of a named test. It is produced by the
// benchmarking harness and never modified afterwards.
type Benchmark struct {
	TestName      string         `json:"testName"`
	Duration      float64        `json:"duration"`   // ms
	Throughput    float64        `json:"throughput"` // tasks/sec, 0 means not applicable
	MemoryUsage   MemoryUsage    `json:"memoryUsage"`
	AgentMetrics  []AgentMetrics `json:"agentMetrics"`
	SystemMetrics SystemMetrics  `json:"systemMetrics"`
}

// PeakHeap returns the peak heapUsed reading in bytes.
func (b Benchmark) PeakHeap() float64 {
	return b.MemoryUsage.Peak.HeapUsed
}

// TestResult is an externally computed pass/fail outcome merged into a
// report summary alongside the benchmarks.
type TestResult struct {
	Name     string  `json:"name"`
	Passed   bool    `json:"passed"`
	Duration float64 `json:"duration,omitempty"` // ms
}

// LoadBenchmarks reads a JSON array of benchmarks from path.
func LoadBenchmarks(path string) ([]Benchmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []Benchmark
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid benchmark file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	for i, r := range records {
		if r.TestName == "" {
			return nil, fmt.Errorf("benchmark %d in %s has no testName", i, path)
		}
	}

	return records, nil
}

// LoadTestResults reads a JSON array of external test results from path.
func LoadTestResults(path string) ([]TestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var results []TestResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("invalid test results file %s: %w", path, err)
	}
	return results, nil
}
