// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/moran-sim/moran-sim/sim/timeseries"
	"github.com/moran-sim/moran-sim/sim/trace"
)

// Simulator is the core object that holds simulation time, the clone registry,
// the mutation counters and the event loop. It exclusively owns the registry and
// the RNG stream for the lifetime of a run.
type Simulator struct {
	Clock   float64
	Horizon float64
	Config  Config
	// Registry holds every clone ever created, extinct ones included
	Registry *CloneRegistry
	// cumulative number of driver / passenger mutations over the run
	CumulativeDrivers    int64
	CumulativePassengers int64
	// StepCount is the number of applied events; row StepCount is the latest recorded row
	StepCount int
	Sampler   EventSampler
	// Recorder receives the initial row and one row per applied event (may be nil)
	Recorder timeseries.Recorder
	// Trace collects per-event decisions when enabled (may be nil)
	Trace   *trace.SimulationTrace
	Metrics *Metrics

	rng        RandomSource
	selector   *Selector
	terminated bool
}

// NewSimulator creates the initial state of a run: time 0 and a single wild-type clone
// holding all NTot cells. Every random draw of the run comes from rng, in a fixed order.
func NewSimulator(cfg Config, rng RandomSource, recorder timeseries.Recorder, tr *trace.SimulationTrace) *Simulator {
	return &Simulator{
		Clock:    0,
		Horizon:  cfg.Horizon,
		Config:   cfg,
		Registry: NewCloneRegistry(cfg.NTot),
		Sampler: EventSampler{
			Fitness:      FitnessModel{S: cfg.S, D: cfg.D},
			MutationRate: cfg.L,
		},
		Recorder: recorder,
		Trace:    tr,
		Metrics:  NewMetrics(),
		rng:      rng,
		selector: &Selector{RNG: rng, Fallback: cfg.fallback()},
	}
}

// NewSeededSimulator creates a Simulator drawing from the evolution subsystem of cfg.Seed.
func NewSeededSimulator(cfg Config, recorder timeseries.Recorder, tr *trace.SimulationTrace) *Simulator {
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed)).ForSubsystem(SubsystemEvolution)
	return NewSimulator(cfg, rng, recorder, tr)
}

// Snapshot returns the current recorded view of the state.
func (sim *Simulator) Snapshot() timeseries.Row {
	return timeseries.Row{
		Time:                 sim.Clock,
		ActiveClones:         sim.Registry.ActiveCount(),
		CumulativeDrivers:    sim.CumulativeDrivers,
		CumulativePassengers: sim.CumulativePassengers,
	}
}

// Terminated reports whether the run has stopped.
func (sim *Simulator) Terminated() bool {
	return sim.terminated
}

// Run records the initial state and applies events until the horizon is reached.
func (sim *Simulator) Run() error {
	initial := sim.Snapshot()
	sim.Metrics.observe(initial.ActiveClones, sim.Registry.Len())
	if err := sim.recordRow(initial); err != nil {
		return err
	}
	logrus.Infof("[t=%g] Simulation started: model=%s Ntot=%d s=%g d=%g L=%g p=%g horizon=%g",
		sim.Clock, sim.Config.Regime, sim.Config.NTot, sim.Config.S, sim.Config.D, sim.Config.L, sim.Config.P, sim.Horizon)
	for {
		advanced, err := sim.Step()
		if err != nil {
			return err
		}
		if !advanced {
			break
		}
	}
	logrus.Infof("[t=%g] Simulation ended after %d events, %d clones created", sim.Clock, sim.StepCount, sim.Registry.Len())
	return nil
}

// Step samples and applies one event. It returns false once the run has terminated;
// a terminating step applies nothing and records nothing.
func (sim *Simulator) Step() (bool, error) {
	if sim.terminated {
		return false, nil
	}
	sample := sim.Sampler.Next(sim.rng, sim.Registry, sim.Clock, sim.Horizon)
	if sample.Terminated {
		sim.terminate(sample)
		return false, nil
	}

	sim.Clock = sample.Time
	var ev Event
	switch sample.Class {
	case EventDivisionDeath:
		ev = &DivisionDeathEvent{time: sample.Time, table: sample.Table}
	default:
		ev = &MutationEvent{time: sample.Time}
	}
	ev.Execute(sim)
	sim.StepCount++
	sim.Metrics.Fallthroughs = sim.selector.Fallthroughs

	row := sim.Snapshot()
	sim.Metrics.observe(row.ActiveClones, sim.Registry.Len())
	if err := sim.recordRow(row); err != nil {
		return false, err
	}
	return true, nil
}

func (sim *Simulator) terminate(sample Sample) {
	sim.terminated = true
	if sample.Degenerate {
		sim.Metrics.Degenerate = true
		logrus.Warnf("[t=%g] total propensity %v is not a positive finite rate; terminating run early",
			sim.Clock, sample.TotalPropensity)
		sim.Metrics.SimEndedTime = sim.Clock
	} else {
		sim.Metrics.SimEndedTime = sim.Horizon
	}
	sim.Metrics.observe(sim.Registry.ActiveCount(), sim.Registry.Len())
}

func (sim *Simulator) recordRow(row timeseries.Row) error {
	if sim.Recorder == nil {
		return nil
	}
	if err := sim.Recorder.Record(row); err != nil {
		return fmt.Errorf("recording step %d: %w", sim.StepCount, err)
	}
	return nil
}
