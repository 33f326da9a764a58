package sim

import "math"

// EventClass classifies a sampled event.
type EventClass string

const (
	// EventDivisionDeath is one division paired with one death.
	EventDivisionDeath EventClass = "division"
	// EventMutation is one cell leaving its clone to found a new clone.
	EventMutation EventClass = "mutation"
)

// EventSampler draws the waiting time to the next event and its class.
type EventSampler struct {
	Fitness      FitnessModel
	MutationRate float64 // L: flat aggregate rate of the single mutation channel
}

// Sample is the outcome of one EventSampler.Next call.
type Sample struct {
	Time            float64         // clock after adding the waiting time
	Table           PropensityTable // division propensities used for this step
	TotalPropensity float64         // Table.Total + MutationRate
	Class           EventClass      // empty when Terminated
	Terminated      bool            // horizon reached or propensity degenerate; nothing to apply
	Degenerate      bool            // total propensity was not a positive finite number
}

// Next computes propensities from reg, draws the exponential waiting time and,
// if the new clock stays below horizon, draws the event class.
//
// A non-positive or non-finite total propensity terminates the run at the current clock
// without consuming any random draws.
func (es EventSampler) Next(rng RandomSource, reg *CloneRegistry, clock, horizon float64) Sample {
	table := es.Fitness.BuildPropensityTable(reg)
	total := table.Total + es.MutationRate
	s := Sample{Time: clock, Table: table, TotalPropensity: total}

	if !(total > 0) || math.IsInf(total, 0) {
		s.Terminated = true
		s.Degenerate = true
		return s
	}

	s.Time = clock + rng.ExpFloat64()/total
	if s.Time >= horizon {
		s.Terminated = true
		return s
	}

	if rng.Float64()*total < table.Total {
		s.Class = EventDivisionDeath
	} else {
		s.Class = EventMutation
	}
	return s
}
