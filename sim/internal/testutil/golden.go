// Package testutil provides shared test infrastructure for the simulator.
// It holds the golden dataset of scripted reference runs and assertion helpers.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one run with a scripted random stream and its expected outcome.
type GoldenTestCase struct {
	Name  string  `json:"name"`
	Model string  `json:"model"`
	TMax  float64 `json:"tmax"`
	NTot  int     `json:"ntot"`
	S     float64 `json:"s"`
	D     float64 `json:"d"`
	L     float64 `json:"l"`
	P     float64 `json:"p"`

	// Draws is consumed in order; Kind is "exp", "float" or "int".
	Draws []GoldenDraw `json:"draws"`

	Rows   []GoldenRow   `json:"rows"`
	Clones []GoldenClone `json:"clones"`
}

// GoldenDraw is one scripted random value.
type GoldenDraw struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// GoldenRow is one expected time series row.
type GoldenRow struct {
	Time                 float64 `json:"time"`
	ActiveClones         int     `json:"active_clones"`
	CumulativeDrivers    int64   `json:"cumulative_drivers"`
	CumulativePassengers int64   `json:"cumulative_passengers"`
}

// GoldenClone is one expected registry entry after the run.
type GoldenClone struct {
	Drivers    int `json:"k"`
	Passengers int `json:"l"`
	Population int `json:"n"`
}

// LoadGoldenDataset reads testdata/goldendataset.json from the module root, found by
// walking up from the test's working directory until a go.mod appears.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	root, err := os.Getwd()
	if err != nil {
		t.Fatalf("working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatal("no go.mod above the test directory")
		}
		root = parent
	}

	f, err := os.Open(filepath.Join(root, "testdata", "goldendataset.json"))
	if err != nil {
		t.Fatalf("open golden dataset: %v", err)
	}
	defer f.Close()

	dataset := &GoldenDataset{}
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dataset); err != nil {
		t.Fatalf("decode golden dataset: %v", err)
	}
	return dataset
}

// AssertClose fails the test when got differs from want by more than tol, measured
// absolutely for values below 1 and relatively above.
func AssertClose(t *testing.T, name string, want, got, tol float64) {
	t.Helper()
	scale := math.Max(1, math.Abs(want))
	if d := math.Abs(want - got); d > tol*scale {
		t.Errorf("%s: got %v, want %v (off by %g)", name, got, want, d)
	}
}
