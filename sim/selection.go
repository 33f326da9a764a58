package sim

import "github.com/sirupsen/logrus"

// SelectProportional performs a roulette-wheel pick over the propensity table.
// r must be drawn from [0, t.Total). The first entry whose cumulative propensity is
// strictly greater than r wins; the registry index of that clone is returned.
//
// If rounding makes r fall through every entry, the result depends on fallback:
// FallbackClamp returns the last entry with positive propensity, FallbackSkip returns
// ok=false. fellThrough reports whether the fall-through path was taken at all.
func SelectProportional(t PropensityTable, r float64, fallback FallbackPolicy) (idx int, ok bool, fellThrough bool) {
	cumulative := 0.0
	for i, p := range t.Propensities {
		cumulative += p
		if r < cumulative {
			return t.Indices[i], true, false
		}
	}
	if fallback == FallbackSkip {
		return -1, false, true
	}
	for i := len(t.Propensities) - 1; i >= 0; i-- {
		if t.Propensities[i] > 0 {
			return t.Indices[i], true, true
		}
	}
	return -1, false, true
}

// SelectUniformCell maps a 1-based cell position onto the clone containing it.
// The full registry is walked; extinct clones add nothing to the running sum and
// therefore can never contain the cell.
//
// A fall-through only happens when cell exceeds the registry's total population.
// FallbackClamp then returns the last non-extinct clone.
func SelectUniformCell(reg *CloneRegistry, cell int, fallback FallbackPolicy) (idx int, ok bool, fellThrough bool) {
	cumulative := 0
	for i, c := range reg.clones {
		cumulative += c.Population
		if cell <= cumulative {
			return i, true, false
		}
	}
	if fallback == FallbackSkip {
		return -1, false, true
	}
	for i := len(reg.clones) - 1; i >= 0; i-- {
		if reg.clones[i].Population > 0 {
			return i, true, true
		}
	}
	return -1, false, true
}

// Selector draws selection decisions from the run's RNG stream.
type Selector struct {
	RNG      RandomSource
	Fallback FallbackPolicy
	// Fallthroughs counts roulette draws that missed every candidate.
	Fallthroughs int
}

// Proportional picks a clone with probability proportional to its division propensity.
func (s *Selector) Proportional(t PropensityTable) (int, bool) {
	r := s.RNG.Float64() * t.Total
	idx, ok, fell := SelectProportional(t, r, s.Fallback)
	if fell {
		s.Fallthroughs++
		logrus.Debugf("proportional draw r=%v fell through total=%v (fallback=%s, selected=%d)", r, t.Total, s.Fallback, idx)
	}
	return idx, ok
}

// UniformCell picks a clone with probability proportional to its population,
// independent of fitness. nTot is the fixed total population.
func (s *Selector) UniformCell(reg *CloneRegistry, nTot int) (int, bool) {
	cell := s.RNG.Intn(nTot) + 1
	idx, ok, fell := SelectUniformCell(reg, cell, s.Fallback)
	if fell {
		s.Fallthroughs++
		logrus.Debugf("cell draw %d fell through population %d (fallback=%s, selected=%d)", cell, reg.TotalPopulation(), s.Fallback, idx)
	}
	return idx, ok
}

// Death picks the dying clone of a division/death event according to the regime.
func (s *Selector) Death(regime Regime, t PropensityTable, reg *CloneRegistry, nTot int) (int, bool) {
	if regime == RegimeB {
		return s.UniformCell(reg, nTot)
	}
	return s.Proportional(t)
}
