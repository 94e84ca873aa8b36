// Package jira implements the issue source over the Jira REST v3 API.
package jira

import (
	"fmt"
	"time"

	"github.com/steveyegge/launchgate/internal/types"
)

// API defaults
const (
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 100
)

// Issue represents a Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of a Jira issue that lg requests.
type IssueFields struct {
	Summary    string         `json:"summary"`
	Status     *StatusField   `json:"status"`
	Priority   *PriorityField `json:"priority"`
	Assignee   *UserField     `json:"assignee"`
	Updated    string         `json:"updated"`
	IssueLinks []IssueLink    `json:"issuelinks"`
}

// StatusField represents a Jira workflow status.
type StatusField struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	StatusCategory *StatusCategoryField `json:"statusCategory"`
}

// StatusCategoryField is the coarse bucket a status belongs to.
// Name is "To Do", "In Progress" or "Done".
type StatusCategoryField struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Stable category keys. Names are localized ("Fertig", "Terminé"), keys are not.
var statusCategoryNames = map[string]string{
	"new":           "To Do",
	"indeterminate": "In Progress",
	"done":          "Done",
}

// canonicalName returns the English category name for known keys and the
// reported name otherwise.
func (c *StatusCategoryField) canonicalName() string {
	if name, ok := statusCategoryNames[c.Key]; ok {
		return name
	}
	return c.Name
}

// PriorityField represents a Jira issue priority.
type PriorityField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserField represents a Jira user.
type UserField struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// IssueLink represents a link between issues.
type IssueLink struct {
	ID           string    `json:"id"`
	Type         LinkType  `json:"type"`
	InwardIssue  *IssueRef `json:"inwardIssue,omitempty"`
	OutwardIssue *IssueRef `json:"outwardIssue,omitempty"`
}

// LinkType describes the type of link.
type LinkType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// IssueRef is a reference to another issue in a link.
type IssueRef struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// SearchResult represents a Jira JQL search response.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira API returned %d: %s", e.StatusCode, e.Body)
}

// ToItem converts a Jira issue to the engine's item form.
// A missing status reads as "Unknown"; a missing assignee stays empty.
func (ji *Issue) ToItem() types.Item {
	item := types.Item{
		Key:     ji.Key,
		Summary: ji.Fields.Summary,
		Status:  "Unknown",
	}
	if s := ji.Fields.Status; s != nil {
		if s.Name != "" {
			item.Status = s.Name
		}
		if s.StatusCategory != nil {
			item.StatusCategory = s.StatusCategory.canonicalName()
		}
	}
	if ji.Fields.Assignee != nil {
		item.Assignee = ji.Fields.Assignee.DisplayName
	}
	if ji.Fields.Priority != nil {
		item.Priority = ji.Fields.Priority.Name
	}
	if t, err := ParseTimestamp(ji.Fields.Updated); err == nil {
		item.Updated = t
	}
	return item
}

// ToLink converts a Jira issue link to the engine's link form.
func (l IssueLink) ToLink() types.Link {
	link := types.Link{Type: l.Type.Name}
	if l.OutwardIssue != nil {
		link.OutwardKey = l.OutwardIssue.Key
	}
	if l.InwardIssue != nil {
		link.InwardKey = l.InwardIssue.Key
	}
	return link
}
