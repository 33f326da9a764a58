package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents        int         `yaml:"total_events"`
	DivisionEvents     int         `yaml:"division_events"`
	MutationEvents     int         `yaml:"mutation_events"`
	NoOpEvents         int         `yaml:"noop_events"`
	SelfReplacements   int         `yaml:"self_replacements"`
	DriverMutations    int         `yaml:"driver_mutations"`
	PassengerMutations int         `yaml:"passenger_mutations"`
	DeathsByClone      map[int]int `yaml:"deaths_by_clone"` // registry index → applied deaths
	BirthsByClone      map[int]int `yaml:"births_by_clone"` // registry index → applied divisions
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DeathsByClone: make(map[int]int),
		BirthsByClone: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	for _, e := range st.Events {
		if !e.Applied {
			summary.NoOpEvents++
		}
		switch e.Class {
		case ClassDivisionDeath:
			summary.DivisionEvents++
			if e.Applied {
				summary.DeathsByClone[e.Dying]++
				summary.BirthsByClone[e.Reproducer]++
			}
			if e.SelfReplacement() {
				summary.SelfReplacements++
			}
		case ClassMutation:
			summary.MutationEvents++
			if !e.Applied {
				continue
			}
			if e.Driver {
				summary.DriverMutations++
			} else {
				summary.PassengerMutations++
			}
		}
	}
	return summary
}
