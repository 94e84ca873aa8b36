package checklist

import (
	"strings"

	"github.com/steveyegge/launchgate/internal/types"
)

// Template is an ordered set of canonical requirement titles for one group.
type Template struct {
	Name   string   `json:"name" yaml:"name" toml:"name"`
	Titles []string `json:"titles" yaml:"titles" toml:"titles"`
}

// Group is the result of matching items against one template.
type Group struct {
	Name      string       `json:"name"`
	Matched   []types.Item `json:"matched"`
	Unmatched []types.Item `json:"unmatched"`
}

// MatchesTitle reports whether an item summary matches one template title.
// The summary is trimmed; after that an exact match or a case-insensitive
// containment in either direction counts.
func MatchesTitle(summary, title string) bool {
	s := strings.TrimSpace(summary)
	if s == title {
		return true
	}
	if s == "" || title == "" {
		return false
	}
	ls, lt := strings.ToLower(s), strings.ToLower(title)
	return strings.Contains(ls, lt) || strings.Contains(lt, ls)
}

// Matches reports whether the item matches any title of the template.
func (t Template) Matches(item types.Item) bool {
	for _, title := range t.Titles {
		if MatchesTitle(item.Summary, title) {
			return true
		}
	}
	return false
}

// Match splits items into those matching the template and the rest.
// Matching is independent per template; an empty template matches nothing.
func Match(items []types.Item, tmpl Template) Group {
	g := Group{Name: tmpl.Name}
	for _, item := range items {
		if tmpl.Matches(item) {
			g.Matched = append(g.Matched, item)
		} else {
			g.Unmatched = append(g.Unmatched, item)
		}
	}
	return g
}

// Partition assigns each item to the first template it matches, in template
// order. Items matched by no template are returned as other. The returned
// groups have no Unmatched items; they line up with templates by index.
func Partition(items []types.Item, templates []Template) (groups []Group, other []types.Item) {
	groups = make([]Group, len(templates))
	for i, tmpl := range templates {
		groups[i].Name = tmpl.Name
	}
	remaining := items
	for i, tmpl := range templates {
		g := Match(remaining, tmpl)
		groups[i].Matched = g.Matched
		remaining = g.Unmatched
	}
	return groups, remaining
}
