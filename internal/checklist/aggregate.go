package checklist

import "github.com/steveyegge/launchgate/internal/types"

// Stats holds completion counts for one group of items.
type Stats struct {
	Completed     int  `json:"completed"`
	NotApplicable int  `json:"not_applicable"`
	Pending       int  `json:"pending"`
	IsReady       bool `json:"is_ready"`
}

// Total returns the number of items the stats were computed from.
func (s Stats) Total() int {
	return s.Completed + s.NotApplicable + s.Pending
}

// Resolved returns the number of items that no longer block readiness.
func (s Stats) Resolved() int {
	return s.Completed + s.NotApplicable
}

// Aggregate classifies every item and counts the outcomes.
// An empty item list is never ready.
func Aggregate(items []types.Item) Stats {
	var s Stats
	for _, item := range items {
		switch Classify(item.StatusCategory, item.Status) {
		case StateDone:
			s.Completed++
		case StateNotApplicable:
			s.NotApplicable++
		}
	}
	s.Pending = len(items) - s.Completed - s.NotApplicable
	s.IsReady = s.Pending == 0 && len(items) > 0
	return s
}

// Add combines two sets of counts. The sum is ready when nothing is pending
// and at least one item was counted.
func (s Stats) Add(o Stats) Stats {
	sum := Stats{
		Completed:     s.Completed + o.Completed,
		NotApplicable: s.NotApplicable + o.NotApplicable,
		Pending:       s.Pending + o.Pending,
	}
	sum.IsReady = sum.Pending == 0 && sum.Total() > 0
	return sum
}
