package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/moran-sim/moran-sim/sim/trace"
)

// Event defines the interface for all simulation events.
// Each event has a Timestamp (simulation time units) and an Execute method
// that applies its effect to the simulation state.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// DivisionDeathEvent is one cell division paired with one cell death.
// The population size is unchanged by construction.
type DivisionDeathEvent struct {
	time  float64
	table PropensityTable // propensities the event was sampled from
}

// Timestamp returns the time of the DivisionDeathEvent.
func (e *DivisionDeathEvent) Timestamp() float64 {
	return e.time
}

// Execute picks the reproducing clone proportionally to propensity and the dying clone
// according to the regime, then moves one cell from the dying to the reproducing clone.
// If either pick comes back empty the event is a no-op.
func (e *DivisionDeathEvent) Execute(sim *Simulator) {
	reproducer, okRepro := sim.selector.Proportional(e.table)
	dying, okDeath := sim.selector.Death(sim.Config.Regime, e.table, sim.Registry, sim.Config.NTot)

	applied := okRepro && okDeath
	if applied {
		sim.Registry.transfer(dying, reproducer)
	} else {
		sim.Metrics.NoOpEvents++
	}
	sim.Metrics.DivisionEvents++

	logrus.Debugf("<< Division/death at t=%g: reproducer=%d dying=%d applied=%v", e.time, reproducer, dying, applied)

	if sim.Trace.Enabled() {
		sim.Trace.RecordEvent(trace.EventRecord{
			Step:       sim.StepCount + 1,
			Time:       e.time,
			Class:      trace.ClassDivisionDeath,
			Reproducer: reproducer,
			Dying:      dying,
			Parent:     -1,
			Child:      -1,
			Applied:    applied,
		})
	}
}

// MutationEvent is one cell leaving its clone to found a new single-cell clone.
type MutationEvent struct {
	time float64
}

// Timestamp returns the time of the MutationEvent.
func (e *MutationEvent) Timestamp() float64 {
	return e.time
}

// Execute picks the parent clone uniformly over cells, removes one of its cells and
// appends a child clone with one extra driver (probability P) or passenger mutation.
func (e *MutationEvent) Execute(sim *Simulator) {
	sim.Metrics.MutationEvents++

	parent, ok := sim.selector.UniformCell(sim.Registry, sim.Config.NTot)
	if !ok {
		sim.Metrics.NoOpEvents++
		logrus.Debugf("<< Mutation at t=%g: no parent selected", e.time)
		if sim.Trace.Enabled() {
			sim.Trace.RecordEvent(trace.EventRecord{
				Step: sim.StepCount + 1, Time: e.time, Class: trace.ClassMutation,
				Reproducer: -1, Dying: -1, Parent: -1, Child: -1,
			})
		}
		return
	}

	driver := sim.rng.Float64() < sim.Config.P
	child := sim.Registry.spawn(parent, driver)
	if driver {
		sim.CumulativeDrivers++
	} else {
		sim.CumulativePassengers++
	}

	logrus.Debugf("<< Mutation at t=%g: parent=%d child=%d driver=%v", e.time, parent, child, driver)

	if sim.Trace.Enabled() {
		sim.Trace.RecordEvent(trace.EventRecord{
			Step:       sim.StepCount + 1,
			Time:       e.time,
			Class:      trace.ClassMutation,
			Reproducer: -1,
			Dying:      -1,
			Parent:     parent,
			Child:      child,
			Driver:     driver,
			Applied:    true,
		})
	}
}
