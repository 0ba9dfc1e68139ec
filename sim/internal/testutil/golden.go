// Package testutil provides shared test infrastructure for the simulator.
// It holds the M/M/c reference dataset and the tolerance helpers used by the
// sim/ and sim/queueing/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ReferenceDataset represents the structure of testdata/mmc_reference.json.
type ReferenceDataset struct {
	Cases []ReferenceCase `json:"cases"`
}

// ReferenceCase is one M/M/c system with its closed-form steady state and
// the run parameters used to check the simulator against it.
type ReferenceCase struct {
	Name    string           `json:"name"`
	Lambda  float64          `json:"lambda"`
	Mu      float64          `json:"mu"`
	Servers int              `json:"servers"`
	Seed    int64            `json:"seed"`
	Horizon float64          `json:"horizon"`
	Metrics ReferenceMetrics `json:"metrics"`
}

// ReferenceMetrics are the Erlang C steady-state values of a case.
type ReferenceMetrics struct {
	Utilization  float64 `json:"utilization"`
	ProbWait     float64 `json:"prob_wait"`
	ProbEmpty    float64 `json:"prob_empty"`
	MeanWaiting  float64 `json:"mean_waiting"`
	MeanInSystem float64 `json:"mean_in_system"`
}

// LoadReferenceDataset loads the M/M/c reference dataset.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadReferenceDataset(t *testing.T) *ReferenceDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "mmc_reference.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read reference dataset: %v", err)
	}

	var dataset ReferenceDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse reference dataset: %v", err)
	}
	if len(dataset.Cases) == 0 {
		t.Fatal("Reference dataset has no cases")
	}
	return &dataset
}

// AssertRelativeClose compares two float64 values with relative tolerance.
func AssertRelativeClose(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
