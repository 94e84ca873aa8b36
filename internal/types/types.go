// Package types defines core data structures shared by the launch gate engine.
package types

import (
	"strings"
	"time"
)

// Item is one work item fetched from the issue source.
// Items are created fresh on every fetch and never mutated afterwards.
type Item struct {
	Key            string    `json:"key"`
	Summary        string    `json:"summary"`
	Status         string    `json:"status"`
	StatusCategory string    `json:"status_category,omitempty"` // "Done", "To Do", "In Progress"
	Assignee       string    `json:"assignee,omitempty"`        // Empty when unassigned
	Priority       string    `json:"priority,omitempty"`
	ParentKey      string    `json:"parent_key,omitempty"` // Set for engineering-derived items
	Updated        time.Time `json:"updated,omitzero"`
}

// TrimmedSummary returns the summary with surrounding whitespace removed.
// Matching always works on this form.
func (i Item) TrimmedSummary() string {
	return strings.TrimSpace(i.Summary)
}

// AssigneeOrDefault returns the assignee display name, or "Unassigned".
func (i Item) AssigneeOrDefault() string {
	if i.Assignee == "" {
		return "Unassigned"
	}
	return i.Assignee
}

// PriorityOrDefault returns the priority name, or "None".
func (i Item) PriorityOrDefault() string {
	if i.Priority == "" {
		return "None"
	}
	return i.Priority
}

// ChildPage is the result of fetching the direct children of an item.
// Total may exceed len(Items) when the source caps its page size.
type ChildPage struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// Truncated reports whether the source had more children than it returned.
func (p ChildPage) Truncated() bool {
	return p.Total > len(p.Items)
}

// Link is one issue link record attached to an item.
// A link may name an issue on either side or both.
type Link struct {
	Type       string `json:"type"`
	OutwardKey string `json:"outward_key,omitempty"`
	InwardKey  string `json:"inward_key,omitempty"`
}

// Keys returns the linked issue keys in outward, inward order, skipping empty sides.
func (l Link) Keys() []string {
	var keys []string
	if l.OutwardKey != "" {
		keys = append(keys, l.OutwardKey)
	}
	if l.InwardKey != "" {
		keys = append(keys, l.InwardKey)
	}
	return keys
}
