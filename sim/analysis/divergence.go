// Package analysis compares death-selection behavior between regimes on a fixed
// clone registry using chi-square statistics.
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/moran-sim/moran-sim/sim"
)

// ChiSquareResult is the outcome of a chi-square test.
type ChiSquareResult struct {
	Statistic        float64
	DegreesOfFreedom int
	PValue           float64
}

// Significant reports whether the null hypothesis is rejected at level alpha.
func (r ChiSquareResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// ExpectedDeathShares returns, for every registry index, the probability that a
// single death draw selects that clone: propensity share under regime A,
// population share under regime B. Extinct clones get 0.
// It fails when the shares are undefined: an empty registry, or under regime A a
// total propensity that is not a positive finite rate.
func ExpectedDeathShares(regime sim.Regime, fitness sim.FitnessModel, reg *sim.CloneRegistry) ([]float64, error) {
	shares := make([]float64, reg.Len())
	if regime == sim.RegimeB {
		total := float64(reg.TotalPopulation())
		if total <= 0 {
			return nil, fmt.Errorf("registry has no cells")
		}
		for i := range shares {
			shares[i] = float64(reg.At(i).Population) / total
		}
		return shares, nil
	}
	table := fitness.BuildPropensityTable(reg)
	if !(table.Total > 0) || math.IsInf(table.Total, 0) {
		return nil, fmt.Errorf("total propensity %v is not a positive finite rate", table.Total)
	}
	for i, idx := range table.Indices {
		shares[idx] = table.Propensities[i] / table.Total
	}
	return shares, nil
}

// DeathCounts draws trials death selections under the regime from a fixed registry
// and returns how often each registry index was chosen. The registry is not modified.
func DeathCounts(selector *sim.Selector, regime sim.Regime, fitness sim.FitnessModel, reg *sim.CloneRegistry, trials int) []float64 {
	counts := make([]float64, reg.Len())
	table := fitness.BuildPropensityTable(reg)
	nTot := reg.TotalPopulation()
	for i := 0; i < trials; i++ {
		if idx, ok := selector.Death(regime, table, reg, nTot); ok {
			counts[idx]++
		}
	}
	return counts
}

// GoodnessOfFit tests observed counts against expected probabilities.
// Categories with zero expected probability are dropped.
func GoodnessOfFit(observed, shares []float64) (ChiSquareResult, error) {
	if len(observed) != len(shares) {
		return ChiSquareResult{}, fmt.Errorf("observed has %d categories, shares has %d", len(observed), len(shares))
	}
	total := floats.Sum(observed)
	var obs, exp []float64
	for i, s := range shares {
		if s <= 0 {
			continue
		}
		obs = append(obs, observed[i])
		exp = append(exp, s*total)
	}
	if len(obs) < 2 {
		return ChiSquareResult{}, fmt.Errorf("need at least 2 categories with positive expectation, got %d", len(obs))
	}
	return result(stat.ChiSquare(obs, exp), len(obs)-1), nil
}

// Homogeneity tests whether two count vectors over the same categories come from
// the same distribution (2×k contingency table). Categories empty in both are dropped.
func Homogeneity(a, b []float64) (ChiSquareResult, error) {
	if len(a) != len(b) {
		return ChiSquareResult{}, fmt.Errorf("samples have %d and %d categories", len(a), len(b))
	}
	var colA, colB []float64
	for i := range a {
		if a[i]+b[i] == 0 {
			continue
		}
		colA = append(colA, a[i])
		colB = append(colB, b[i])
	}
	if len(colA) < 2 {
		return ChiSquareResult{}, fmt.Errorf("need at least 2 non-empty categories, got %d", len(colA))
	}
	sumA, sumB := floats.Sum(colA), floats.Sum(colB)
	grand := sumA + sumB
	if sumA == 0 || sumB == 0 {
		return ChiSquareResult{}, fmt.Errorf("both samples must be non-empty")
	}
	expA := make([]float64, len(colA))
	expB := make([]float64, len(colB))
	for i := range colA {
		col := colA[i] + colB[i]
		expA[i] = sumA * col / grand
		expB[i] = sumB * col / grand
	}
	statistic := stat.ChiSquare(colA, expA) + stat.ChiSquare(colB, expB)
	return result(statistic, len(colA)-1), nil
}

func result(statistic float64, df int) ChiSquareResult {
	dist := distuv.ChiSquared{K: float64(df)}
	return ChiSquareResult{
		Statistic:        statistic,
		DegreesOfFreedom: df,
		PValue:           dist.Survival(statistic),
	}
}

// RegimeComparison is the outcome of CompareRegimes.
type RegimeComparison struct {
	Trials  int
	CountsA []float64
	CountsB []float64
	Result  ChiSquareResult
}

// CompareRegimes samples the death distribution under both regimes from independent
// subsystem streams of rng and tests them for homogeneity.
func CompareRegimes(rng *sim.PartitionedRNG, fitness sim.FitnessModel, reg *sim.CloneRegistry, trials int) (RegimeComparison, error) {
	if trials < 1 {
		return RegimeComparison{}, fmt.Errorf("trials must be positive, got %d", trials)
	}
	selA := &sim.Selector{RNG: rng.ForSubsystem(sim.SubsystemCompare(sim.RegimeA)), Fallback: sim.FallbackClamp}
	selB := &sim.Selector{RNG: rng.ForSubsystem(sim.SubsystemCompare(sim.RegimeB)), Fallback: sim.FallbackClamp}
	countsA := DeathCounts(selA, sim.RegimeA, fitness, reg, trials)
	countsB := DeathCounts(selB, sim.RegimeB, fitness, reg, trials)
	res, err := Homogeneity(countsA, countsB)
	if err != nil {
		return RegimeComparison{}, err
	}
	return RegimeComparison{Trials: trials, CountsA: countsA, CountsB: countsB, Result: res}, nil
}
