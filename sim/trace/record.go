// Package trace provides event decision-trace recording for clonal evolution runs.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// EventRecord captures the decisions made while applying a single event.
// Clone references are registry indices; -1 means "not selected".
type EventRecord struct {
	Step       int     `yaml:"step"`
	Time       float64 `yaml:"time"`
	Class      string  `yaml:"class"`
	Reproducer int     `yaml:"reproducer"`
	Dying      int     `yaml:"dying"`
	Parent     int     `yaml:"parent"`
	Child      int     `yaml:"child"`
	Driver     bool    `yaml:"driver"`
	Applied    bool    `yaml:"applied"` // false when a selection came back empty and the event was a no-op
}

// SelfReplacement reports whether a division/death event picked the same clone twice.
func (r EventRecord) SelfReplacement() bool {
	return r.Applied && r.Reproducer >= 0 && r.Reproducer == r.Dying
}
