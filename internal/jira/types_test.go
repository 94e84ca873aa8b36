package jira

import (
	"testing"
	"time"
)

func TestIssueToItem(t *testing.T) {
	ji := &Issue{
		Key: "DOC-1",
		Fields: IssueFields{
			Summary:  "Documentation",
			Status:   &StatusField{Name: "Done", StatusCategory: &StatusCategoryField{Key: "done", Name: "Done"}},
			Priority: &PriorityField{Name: "High"},
			Assignee: &UserField{DisplayName: "Ada"},
			Updated:  "2024-01-15T10:30:00.000+0000",
		},
	}
	item := ji.ToItem()

	if item.Key != "DOC-1" || item.Summary != "Documentation" {
		t.Errorf("key/summary = %q/%q", item.Key, item.Summary)
	}
	if item.Status != "Done" || item.StatusCategory != "Done" {
		t.Errorf("status = %q (%q), want Done (Done)", item.Status, item.StatusCategory)
	}
	if item.Assignee != "Ada" || item.Priority != "High" {
		t.Errorf("assignee/priority = %q/%q", item.Assignee, item.Priority)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !item.Updated.Equal(want) {
		t.Errorf("updated = %v, want %v", item.Updated, want)
	}
}

func TestIssueToItemLocalizedCategory(t *testing.T) {
	tests := []struct {
		name     string
		category StatusCategoryField
		want     string
	}{
		{"german done", StatusCategoryField{Key: "done", Name: "Fertig"}, "Done"},
		{"french in progress", StatusCategoryField{Key: "indeterminate", Name: "En cours"}, "In Progress"},
		{"to do", StatusCategoryField{Key: "new", Name: "Aufgaben"}, "To Do"},
		{"unknown key keeps name", StatusCategoryField{Key: "custom", Name: "Blocked"}, "Blocked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category := tt.category
			ji := &Issue{Key: "DOC-1", Fields: IssueFields{
				Summary: "Documentation",
				Status:  &StatusField{Name: "Abgeschlossen", StatusCategory: &category},
			}}
			if got := ji.ToItem().StatusCategory; got != tt.want {
				t.Errorf("StatusCategory = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIssueToItemMissingFields(t *testing.T) {
	item := (&Issue{Key: "LEG-2", Fields: IssueFields{Summary: "Legal Review"}}).ToItem()

	if item.Status != "Unknown" {
		t.Errorf("status = %q, want Unknown", item.Status)
	}
	if item.StatusCategory != "" {
		t.Errorf("status category = %q, want empty", item.StatusCategory)
	}
	if item.AssigneeOrDefault() != "Unassigned" {
		t.Errorf("assignee = %q, want Unassigned", item.AssigneeOrDefault())
	}
	if !item.Updated.IsZero() {
		t.Errorf("updated = %v, want zero", item.Updated)
	}
}

func TestIssueLinkToLink(t *testing.T) {
	tests := []struct {
		name        string
		link        IssueLink
		wantOutward string
		wantInward  string
	}{
		{
			name:        "outward only",
			link:        IssueLink{Type: LinkType{Name: "Implements"}, OutwardIssue: &IssueRef{Key: "ENG-1"}},
			wantOutward: "ENG-1",
		},
		{
			name:       "inward only",
			link:       IssueLink{Type: LinkType{Name: "Blocks"}, InwardIssue: &IssueRef{Key: "ENG-2"}},
			wantInward: "ENG-2",
		},
		{
			name: "neither side",
			link: IssueLink{Type: LinkType{Name: "Relates"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.link.ToLink()
			if got.Type != tt.link.Type.Name {
				t.Errorf("Type = %q, want %q", got.Type, tt.link.Type.Name)
			}
			if got.OutwardKey != tt.wantOutward || got.InwardKey != tt.wantInward {
				t.Errorf("keys = %q/%q, want %q/%q", got.OutwardKey, got.InwardKey, tt.wantOutward, tt.wantInward)
			}
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 404, Body: "not found"}
	if got, want := err.Error(), "jira API returned 404: not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
