package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moran-sim/moran-sim/sim"
	"github.com/moran-sim/moran-sim/sim/analysis"
)

var (
	compareClones []string // k:l:n triples describing a fixed registry
	compareS      float64  // driver advantage
	compareD      float64  // passenger disadvantage
	compareTrials int      // death draws per regime
	compareSeed   int64    // seed for the comparison streams
	compareAlpha  float64  // significance level
)

// compareCmd samples death selection under both regimes on a fixed registry
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare death-selection distributions of regimes A and B with a chi-square test",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clones, err := parseClones(compareClones)
		if err != nil {
			return err
		}
		if compareS <= -1 {
			return fmt.Errorf("s must be greater than -1, got %v", compareS)
		}
		cmd.SilenceUsage = true
		return runCompare(cmd.OutOrStdout(), clones)
	},
}

// parseClones parses "k:l:n" triples into clone records.
func parseClones(specs []string) ([]sim.Clone, error) {
	if len(specs) < 2 {
		return nil, fmt.Errorf("need at least 2 clones, got %d", len(specs))
	}
	clones := make([]sim.Clone, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("clone %q: want drivers:passengers:population", spec)
		}
		var vals [3]int
		for i, part := range parts {
			v, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("clone %q: %w", spec, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("clone %q: negative value %d", spec, v)
			}
			vals[i] = v
		}
		clones = append(clones, sim.Clone{Drivers: vals[0], Passengers: vals[1], Population: vals[2]})
	}
	return clones, nil
}

func runCompare(out io.Writer, clones []sim.Clone) error {
	reg := sim.NewCloneRegistryFrom(clones)
	if reg.TotalPopulation() == 0 {
		return fmt.Errorf("registry has no cells")
	}
	fitness := sim.FitnessModel{S: compareS, D: compareD}
	sharesA, err := analysis.ExpectedDeathShares(sim.RegimeA, fitness, reg)
	if err != nil {
		return fmt.Errorf("regime A: %w", err)
	}
	sharesB, err := analysis.ExpectedDeathShares(sim.RegimeB, fitness, reg)
	if err != nil {
		return fmt.Errorf("regime B: %w", err)
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(compareSeed))
	cmp, err := analysis.CompareRegimes(rng, fitness, reg, compareTrials)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%-5s %-4s %-4s %-8s %-10s %-10s %-10s %-10s\n", "clone", "k", "l", "n", "P(A)", "P(B)", "deaths A", "deaths B")
	for i, c := range clones {
		_, _ = fmt.Fprintf(out, "%-5d %-4d %-4d %-8d %-10.4f %-10.4f %-10.0f %-10.0f\n",
			i, c.Drivers, c.Passengers, c.Population, sharesA[i], sharesB[i], cmp.CountsA[i], cmp.CountsB[i])
	}
	r := cmp.Result
	verdict := "not distinguishable"
	if r.Significant(compareAlpha) {
		verdict = "regimes differ"
	}
	_, _ = fmt.Fprintf(out, "chi-square=%.4f df=%d p=%.4g (%s at alpha=%g, %d trials per regime)\n",
		r.Statistic, r.DegreesOfFreedom, r.PValue, verdict, compareAlpha, cmp.Trials)
	return nil
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareClones, "clones", nil, "Comma-separated drivers:passengers:population triples")
	compareCmd.Flags().Float64Var(&compareS, "s", 0.1, "Driver advantage")
	compareCmd.Flags().Float64Var(&compareD, "d", 0.05, "Passenger disadvantage")
	compareCmd.Flags().IntVar(&compareTrials, "trials", 100000, "Death draws per regime")
	compareCmd.Flags().Int64Var(&compareSeed, "seed", 42, "Seed for the comparison streams")
	compareCmd.Flags().Float64Var(&compareAlpha, "alpha", 0.05, "Significance level")
	_ = compareCmd.MarkFlagRequired("clones")
}
