package trace

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSimulationTrace_RecordEvent_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for events
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})

	// WHEN a mutation record is recorded
	st.RecordEvent(EventRecord{Step: 1, Time: 0.1, Class: ClassMutation,
		Reproducer: -1, Dying: -1, Parent: 0, Child: 1, Driver: true, Applied: true})

	// THEN the trace contains it
	if len(st.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(st.Events))
	}
	if st.Events[0].Child != 1 || !st.Events[0].Driver {
		t.Errorf("unexpected record %+v", st.Events[0])
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	for i := 1; i <= 3; i++ {
		st.RecordEvent(EventRecord{Step: i, Class: ClassDivisionDeath, Reproducer: 0, Dying: 0, Applied: true})
	}
	for i, e := range st.Events {
		if e.Step != i+1 {
			t.Errorf("event %d: step = %d, want %d", i, e.Step, i+1)
		}
	}
}

func TestSimulationTrace_Enabled(t *testing.T) {
	tests := []struct {
		name string
		st   *SimulationTrace
		want bool
	}{
		{"nil trace", nil, false},
		{"level none", NewSimulationTrace(TraceConfig{Level: TraceLevelNone}), false},
		{"empty level", NewSimulationTrace(TraceConfig{}), false},
		{"level events", NewSimulationTrace(TraceConfig{Level: TraceLevelEvents}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"none", true},
		{"events", true},
		{"", true},
		{"decisions", false},
		{"EVENTS", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestEventRecord_SelfReplacement(t *testing.T) {
	tests := []struct {
		name string
		rec  EventRecord
		want bool
	}{
		{"same clone", EventRecord{Class: ClassDivisionDeath, Reproducer: 2, Dying: 2, Applied: true}, true},
		{"different clones", EventRecord{Class: ClassDivisionDeath, Reproducer: 1, Dying: 2, Applied: true}, false},
		{"no-op", EventRecord{Class: ClassDivisionDeath, Reproducer: -1, Dying: -1}, false},
		{"mutation", EventRecord{Class: ClassMutation, Reproducer: -1, Dying: -1, Parent: 0, Child: 1, Applied: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.SelfReplacement(); got != tt.want {
				t.Errorf("SelfReplacement() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimulationTrace_Export(t *testing.T) {
	// GIVEN a trace with one division and one mutation
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	st.RecordEvent(EventRecord{Step: 1, Time: 0.5, Class: ClassDivisionDeath, Reproducer: 0, Dying: 0, Parent: -1, Child: -1, Applied: true})
	st.RecordEvent(EventRecord{Step: 2, Time: 0.7, Class: ClassMutation, Reproducer: -1, Dying: -1, Parent: 0, Child: 1, Applied: true})
	path := filepath.Join(t.TempDir(), "trace.yaml")

	// WHEN exported
	if err := st.Export(path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// THEN the YAML carries the level, the summary and the records
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got traceFile
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("parsing exported trace: %v", err)
	}
	if got.Level != TraceLevelEvents {
		t.Errorf("level = %q, want %q", got.Level, TraceLevelEvents)
	}
	if got.Summary == nil || got.Summary.SelfReplacements != 1 || got.Summary.PassengerMutations != 1 {
		t.Errorf("unexpected summary %+v", got.Summary)
	}
	if len(got.Events) != 2 || got.Events[1].Child != 1 {
		t.Errorf("unexpected events %+v", got.Events)
	}
}

func TestSimulationTrace_Export_BadPath(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	if err := st.Export(filepath.Join(t.TempDir(), "missing", "trace.yaml")); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
