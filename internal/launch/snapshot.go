package launch

import (
	"strings"
	"time"

	"github.com/steveyegge/launchgate/internal/checklist"
	"github.com/steveyegge/launchgate/internal/signoff"
	"github.com/steveyegge/launchgate/internal/types"
)

// Group names that are not template-driven.
const (
	OtherGroupName       = "Other"
	EngineeringGroupName = "Engineering"
)

// unmatchedGroupName names the group of gated items no template title matched.
func unmatchedGroupName(gate string) string {
	return gate + ": " + OtherGroupName
}

// ItemView is an item together with its classified state.
type ItemView struct {
	types.Item
	State checklist.State `json:"state"`
}

// GroupView is one rendered checklist group.
// Gate is the sign-off the group's readiness feeds, or TargetNone.
type GroupView struct {
	Name   string          `json:"name"`
	Gate   signoff.Target  `json:"gate"`
	Items  []ItemView      `json:"items"`
	Stats  checklist.Stats `json:"stats"`
	Errors []string        `json:"errors,omitempty"`
}

// Readiness holds the sign-off predicates computed from the latest fetch.
type Readiness struct {
	Product     bool `json:"product"`
	Engineering bool `json:"engineering"`
	Overall     bool `json:"overall"`
}

// Ready reports the predicate for target.
func (r Readiness) Ready(t signoff.Target) bool {
	switch t {
	case signoff.TargetEngineering:
		return r.Engineering
	case signoff.TargetProduct:
		return r.Product
	default:
		return false
	}
}

// Snapshot is everything a surface needs to render one session.
type Snapshot struct {
	SessionID string        `json:"session_id"`
	ParentKey string        `json:"parent_key"`
	Groups    []GroupView   `json:"groups"`
	Signoff   signoff.State `json:"signoff"`
	Readiness Readiness     `json:"readiness"`
	Error     string        `json:"error,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
	LoadedAt  time.Time     `json:"loaded_at,omitzero"`
}

// Group returns the group gating target, if present.
func (s Snapshot) Group(t signoff.Target) (GroupView, bool) {
	for _, g := range s.Groups {
		if g.Gate == t {
			return g, true
		}
	}
	return GroupView{}, false
}

// GateStats sums the stats of every group that gates t.
func (s Snapshot) GateStats(t signoff.Target) checklist.Stats {
	var total checklist.Stats
	for _, g := range s.Groups {
		if g.Gate == t {
			total = total.Add(g.Stats)
		}
	}
	return total
}

// Surface renders snapshots. Implementations must not mutate the snapshot.
type Surface interface {
	Render(Snapshot) error
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(Snapshot) error

// Render calls f(s).
func (f SurfaceFunc) Render(s Snapshot) error { return f(s) }

func newGroupView(name string, gate signoff.Target, items []types.Item) GroupView {
	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = ItemView{Item: it, State: checklist.Classify(it.StatusCategory, it.Status)}
	}
	return GroupView{
		Name:  name,
		Gate:  gate,
		Items: views,
		Stats: checklist.Aggregate(items),
	}
}

// ComputeReadiness evaluates the sign-off predicates. Stats are only ready
// with at least one item; an engineering error is never ready.
func ComputeReadiness(product, engineering checklist.Stats, engineeringError string) Readiness {
	r := Readiness{
		Product:     product.IsReady,
		Engineering: engineering.IsReady && engineeringError == "",
	}
	r.Overall = r.Product && r.Engineering
	return r
}

// splitTemplates separates the engineering template (by name) from the
// templates applied to the parent's direct children. The first of those
// gates the product sign-off.
func splitTemplates(templates []checklist.Template) (primary []checklist.Template, engineering checklist.Template) {
	engineering = checklist.Template{Name: EngineeringGroupName}
	for _, t := range templates {
		if strings.EqualFold(t.Name, EngineeringGroupName) {
			engineering = t
			continue
		}
		primary = append(primary, t)
	}
	return primary, engineering
}
