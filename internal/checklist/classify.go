// Package checklist classifies launch-gate items, matches them against
// checklist templates and aggregates their completion.
package checklist

import "strings"

// State is the checklist outcome of a single item.
type State int

const (
	StatePending State = iota
	StateDone
	StateNotApplicable
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateDone:
		return "done"
	case StateNotApplicable:
		return "not_applicable"
	default:
		return "pending"
	}
}

// MarshalText encodes the state by name so JSON output stays readable.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// notApplicableStatuses are checked before doneStatuses, so a status such as
// "Cancelled (Done)" is not applicable rather than done.
var notApplicableStatuses = []string{
	"Not Applicable", "N/A", "NA", "Not Required", "Not Needed",
	"Skip", "Skipped", "Won't Do", "Wont Do", "Will Not Do",
	"Cancelled", "Canceled", "Not Relevant", "Irrelevant",
	"Out of Scope", "Not in Scope", "Excluded", "Exempted",
}

var doneStatuses = []string{"Done", "Closed", "Resolved", "Complete", "Completed"}

// doneCategory is the Jira status category that always counts as done.
const doneCategory = "Done"

// Classify maps a status category and status name to a checklist state.
// It never fails; unknown or empty input is pending.
func Classify(statusCategory, statusName string) State {
	name := strings.ToLower(statusName)
	if containsAny(name, notApplicableStatuses) {
		return StateNotApplicable
	}
	if statusCategory == doneCategory || containsAny(name, doneStatuses) {
		return StateDone
	}
	return StatePending
}

func containsAny(lowered string, vocabulary []string) bool {
	if lowered == "" {
		return false
	}
	for _, word := range vocabulary {
		if strings.Contains(lowered, strings.ToLower(word)) {
			return true
		}
	}
	return false
}
