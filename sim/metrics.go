// Tracks run-wide statistics such as event counts, no-op events and clone counts.

package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates statistics about a run for final reporting.
type Metrics struct {
	DivisionEvents    int     // division/death events sampled and executed
	MutationEvents    int     // mutation events sampled and executed
	NoOpEvents        int     // events whose selection came back empty
	Fallthroughs      int     // roulette draws that missed every candidate
	PeakActiveClones  int     // max number of simultaneously active clones
	FinalActiveClones int     // active clones when the run terminated
	RegistrySize      int     // clones ever created, extinct included
	SimEndedTime      float64 // horizon, or the clock at a degenerate stop
	Degenerate        bool    // run stopped on a non-positive total propensity

	WallTime time.Duration // wall-clock duration, set by the caller
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// TotalEvents returns the number of applied steps (no-ops included).
func (m *Metrics) TotalEvents() int {
	return m.DivisionEvents + m.MutationEvents
}

// ExtinctClones returns the number of clones that were created and later died out.
func (m *Metrics) ExtinctClones() int {
	return m.RegistrySize - m.FinalActiveClones
}

func (m *Metrics) observe(active, registrySize int) {
	if active > m.PeakActiveClones {
		m.PeakActiveClones = active
	}
	m.FinalActiveClones = active
	m.RegistrySize = registrySize
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "=== Simulation Metrics ===")
	_, _ = fmt.Fprintf(w, "Events               : %s (division/death %s, mutation %s)\n",
		humanize.Comma(int64(m.TotalEvents())), humanize.Comma(int64(m.DivisionEvents)), humanize.Comma(int64(m.MutationEvents)))
	_, _ = fmt.Fprintf(w, "No-op events         : %s\n", humanize.Comma(int64(m.NoOpEvents)))
	if m.Fallthroughs > 0 {
		_, _ = fmt.Fprintf(w, "Roulette fall-through: %s\n", humanize.Comma(int64(m.Fallthroughs)))
	}
	_, _ = fmt.Fprintf(w, "Clones created       : %s (active %s, extinct %s, peak active %s)\n",
		humanize.Comma(int64(m.RegistrySize)), humanize.Comma(int64(m.FinalActiveClones)),
		humanize.Comma(int64(m.ExtinctClones())), humanize.Comma(int64(m.PeakActiveClones)))
	_, _ = fmt.Fprintf(w, "Simulated time       : %g\n", m.SimEndedTime)
	if m.Degenerate {
		_, _ = fmt.Fprintln(w, "Run stopped early: total propensity was not a positive finite rate")
	}
}

// Registry builds a Prometheus registry holding the run metrics as gauges,
// labelled with the regime.
func (m *Metrics) Registry(regime Regime) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"model": string(regime)}
	gauge := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "moransim",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		g.Set(v)
		reg.MustRegister(g)
	}
	gauge("division_events", "Division/death events executed.", float64(m.DivisionEvents))
	gauge("mutation_events", "Mutation events executed.", float64(m.MutationEvents))
	gauge("noop_events", "Events whose clone selection came back empty.", float64(m.NoOpEvents))
	gauge("roulette_fallthroughs", "Roulette draws that missed every candidate.", float64(m.Fallthroughs))
	gauge("active_clones", "Active clones at the end of the run.", float64(m.FinalActiveClones))
	gauge("peak_active_clones", "Maximum simultaneously active clones.", float64(m.PeakActiveClones))
	gauge("registry_size", "Clones ever created, extinct included.", float64(m.RegistrySize))
	gauge("simulated_time", "Simulated time at which the run ended.", m.SimEndedTime)
	gauge("wall_seconds", "Wall-clock duration of the run in seconds.", m.WallTime.Seconds())
	return reg
}

// WriteTextfile writes the run metrics in the Prometheus text exposition format,
// suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(regime Regime, path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry(regime)); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
