package checklist

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		category string
		name     string
		want     State
	}{
		{"Done", "Done", StateDone},
		{"Done", "Shipped", StateDone},
		{"In Progress", "Resolved", StateDone},
		{"To Do", "Completed", StateDone},
		{"", "closed", StateDone},
		{"To Do", "To Do", StatePending},
		{"In Progress", "In Progress", StatePending},
		{"", "", StatePending},
		{"Unknown", "Unknown", StatePending},
		{"To Do", "Not Applicable", StateNotApplicable},
		{"To Do", "n/a", StateNotApplicable},
		{"Done", "Won't Do", StateNotApplicable},
		{"Done", "Cancelled (Done)", StateNotApplicable},
		{"Done", "Canceled", StateNotApplicable},
		{"To Do", "Out of Scope", StateNotApplicable},
		{"To Do", "EXEMPTED", StateNotApplicable},
		{"To Do", "Skipped", StateNotApplicable},
		// Plain substring matching: "Final" contains "na".
		{"In Progress", "Final Review", StateNotApplicable},
	}

	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.name, func(t *testing.T) {
			if got := Classify(tt.category, tt.name); got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.category, tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyNotApplicableWinsOverDone(t *testing.T) {
	for _, na := range notApplicableStatuses {
		for _, done := range doneStatuses {
			name := na + " " + done
			if got := Classify("Done", name); got != StateNotApplicable {
				t.Errorf("Classify(%q, %q) = %v, want %v", "Done", name, got, StateNotApplicable)
			}
		}
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateDone:          "done",
		StateNotApplicable: "not_applicable",
		StatePending:       "pending",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
		text, err := state.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}
		if string(text) != want {
			t.Errorf("MarshalText() = %q, want %q", text, want)
		}
	}
}
