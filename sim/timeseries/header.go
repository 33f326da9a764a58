package timeseries

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// HeaderVersion is the current run header schema version.
const HeaderVersion = 1

// RunHeader captures the parameters that produced a time series.
type RunHeader struct {
	Version   int     `yaml:"header_version"`
	RunID     string  `yaml:"run_id"`
	CreatedAt string  `yaml:"created_at"`
	Model     string  `yaml:"model"`
	TMax      float64 `yaml:"tmax"`
	NTot      int     `yaml:"ntot"`
	S         float64 `yaml:"s"`
	D         float64 `yaml:"d"`
	L         float64 `yaml:"l"`
	P         float64 `yaml:"p"`
	Seed      int64   `yaml:"seed"`
	Fallback  string  `yaml:"fallback,omitempty"`
	Output    string  `yaml:"output,omitempty"`
}

// NewRunHeader fills in the version, a fresh run ID and the creation timestamp.
func NewRunHeader(model string, tmax float64, nTot int, s, d, l, p float64, seed int64) RunHeader {
	return RunHeader{
		Version:   HeaderVersion,
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Model:     model,
		TMax:      tmax,
		NTot:      nTot,
		S:         s,
		D:         d,
		L:         l,
		P:         p,
		Seed:      seed,
	}
}

// WriteHeader writes the header as a YAML sidecar file.
func WriteHeader(header RunHeader, path string) error {
	data, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling run header: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing run header: %w", err)
	}
	return nil
}

// LoadHeader reads a YAML sidecar written by WriteHeader.
func LoadHeader(path string) (*RunHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run header: %w", err)
	}
	var header RunHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("parsing run header: %w", err)
	}
	return &header, nil
}
