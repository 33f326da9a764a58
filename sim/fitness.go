package sim

import "math"

// FitnessModel is the multiplicative driver/passenger fitness landscape.
type FitnessModel struct {
	S float64 // driver advantage
	D float64 // passenger disadvantage
}

// Fitness returns (1+S)^drivers * (1-D)^passengers.
func (m FitnessModel) Fitness(drivers, passengers int) float64 {
	return math.Pow(1.0+m.S, float64(drivers)) * math.Pow(1.0-m.D, float64(passengers))
}

// Propensity returns the division propensity of a clone: population * fitness.
func (m FitnessModel) Propensity(c Clone) float64 {
	return float64(c.Population) * m.Fitness(c.Drivers, c.Passengers)
}

// PropensityTable lists the division propensities of the active clones in registry order.
// Extinct clones never appear in it.
type PropensityTable struct {
	Indices      []int     // registry index of each active clone
	Propensities []float64 // division propensity, parallel to Indices
	Total        float64   // sum of Propensities, accumulated in table order
}

// BuildPropensityTable computes the propensity table for the current registry.
func (m FitnessModel) BuildPropensityTable(r *CloneRegistry) PropensityTable {
	t := PropensityTable{
		Indices:      make([]int, 0, r.Len()),
		Propensities: make([]float64, 0, r.Len()),
	}
	for i, c := range r.clones {
		if c.Population <= 0 {
			continue
		}
		p := m.Propensity(c)
		t.Indices = append(t.Indices, i)
		t.Propensities = append(t.Propensities, p)
		t.Total += p
	}
	return t
}
