package sim

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe_TracksPeakAndFinal(t *testing.T) {
	m := NewMetrics()
	m.observe(1, 1)
	m.observe(4, 5)
	m.observe(2, 6)

	assert.Equal(t, 4, m.PeakActiveClones)
	assert.Equal(t, 2, m.FinalActiveClones)
	assert.Equal(t, 6, m.RegistrySize)
	assert.Equal(t, 4, m.ExtinctClones())
}

func TestMetrics_Print(t *testing.T) {
	// GIVEN metrics from a long run with a fall-through
	m := &Metrics{
		DivisionEvents:    1234567,
		MutationEvents:    4321,
		NoOpEvents:        2,
		Fallthroughs:      1,
		PeakActiveClones:  40,
		FinalActiveClones: 12,
		RegistrySize:      4322,
		SimEndedTime:      100,
	}
	var buf bytes.Buffer

	// WHEN printed
	m.Print(&buf)

	// THEN counts are grouped with thousands separators
	out := buf.String()
	assert.Contains(t, out, "=== Simulation Metrics ===")
	assert.Contains(t, out, "1,238,888 (division/death 1,234,567, mutation 4,321)")
	assert.Contains(t, out, "Roulette fall-through: 1")
	assert.Contains(t, out, "4,322 (active 12, extinct 4,310, peak active 40)")
	assert.Contains(t, out, "Simulated time       : 100")
	assert.NotContains(t, out, "stopped early")
}

func TestMetrics_Print_Degenerate(t *testing.T) {
	m := &Metrics{Degenerate: true}
	var buf bytes.Buffer
	m.Print(&buf)

	assert.Contains(t, buf.String(), "Run stopped early")
	assert.NotContains(t, buf.String(), "fall-through", "zero fall-throughs are not printed")
}

func TestMetrics_WriteTextfile(t *testing.T) {
	// GIVEN a finished run's metrics
	m := &Metrics{DivisionEvents: 10, MutationEvents: 3, RegistrySize: 4, FinalActiveClones: 2,
		PeakActiveClones: 3, SimEndedTime: 1.5, WallTime: 250 * time.Millisecond}
	path := filepath.Join(t.TempDir(), "run.prom")

	// WHEN exported
	require.NoError(t, m.WriteTextfile(RegimeB, path))

	// THEN the file holds labelled gauges in the text exposition format
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "# TYPE moransim_division_events gauge")
	assert.Contains(t, out, `moransim_division_events{model="B"} 10`)
	assert.Contains(t, out, `moransim_mutation_events{model="B"} 3`)
	assert.Contains(t, out, `moransim_registry_size{model="B"} 4`)
	assert.Contains(t, out, `moransim_simulated_time{model="B"} 1.5`)
	assert.Contains(t, out, `moransim_wall_seconds{model="B"} 0.25`)
}

func TestMetrics_WriteTextfile_BadPath(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(RegimeA, filepath.Join(t.TempDir(), "missing", "run.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing metrics textfile")
}

func TestMetrics_MatchRunCounters(t *testing.T) {
	// GIVEN a seeded run
	cfg := NewConfig(RegimeA, 5, 20, 0.1, 0.05, 2, 0.3)
	cfg.Seed = 99
	s := NewSeededSimulator(cfg, nil, nil)

	// WHEN it completes
	require.NoError(t, s.Run())

	// THEN the metrics agree with the final state
	assert.Equal(t, s.StepCount, s.Metrics.TotalEvents())
	assert.Equal(t, int(s.CumulativeDrivers+s.CumulativePassengers), s.Metrics.MutationEvents-s.Metrics.NoOpEvents)
	assert.Equal(t, s.Registry.Len(), s.Metrics.RegistrySize)
	assert.Equal(t, s.Registry.ActiveCount(), s.Metrics.FinalActiveClones)
	assert.GreaterOrEqual(t, s.Metrics.PeakActiveClones, s.Metrics.FinalActiveClones)
	assert.Equal(t, cfg.Horizon, s.Metrics.SimEndedTime)
}
