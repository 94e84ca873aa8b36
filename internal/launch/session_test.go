package launch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/launchgate/internal/checklist"
	"github.com/steveyegge/launchgate/internal/resolver"
	"github.com/steveyegge/launchgate/internal/signoff"
	"github.com/steveyegge/launchgate/internal/source"
	"github.com/steveyegge/launchgate/internal/types"
)

var productTemplate = checklist.Template{
	Name:   "Product",
	Titles: []string{"Documentation", "Legal Review"},
}

func item(key, summary, status string) types.Item {
	return types.Item{Key: key, Summary: summary, Status: status}
}

func newTestSession(t *testing.T, mem *source.Memory, templates ...checklist.Template) *Session {
	t.Helper()
	if len(templates) == 0 {
		templates = []checklist.Template{productTemplate}
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewSession("LAUNCH-1", mem, Options{
		Templates: templates,
		Now:       func() time.Time { return fixed },
	})
}

func groupNames(s Snapshot) []string {
	names := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		names[i] = g.Name
	}
	return names
}

func TestLoadProductScenario(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1",
		item("DOC-1", "Documentation", "Done"),
		item("LEG-1", "  Legal Review  ", "In Progress"),
		item("MKT-1", "Press kit", "Open"),
	)

	snap := newTestSession(t, mem).Load(context.Background())

	require.Empty(t, snap.Error)
	assert.Equal(t, []string{"Product", "Engineering", "Other"}, groupNames(snap))

	product, ok := snap.Group(signoff.TargetProduct)
	require.True(t, ok)
	assert.Equal(t, checklist.Stats{Completed: 1, Pending: 1}, product.Stats)
	assert.Equal(t, checklist.StateDone, product.Items[0].State)
	assert.False(t, snap.Readiness.Product)
	assert.False(t, snap.Readiness.Overall)

	other := snap.Groups[2]
	require.Len(t, other.Items, 1)
	assert.Equal(t, "MKT-1", other.Items[0].Key)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), snap.LoadedAt)
}

func TestLoadNoEngineeringLinksNeverReady(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1", item("DOC-1", "Documentation", "Done"))

	snap := newTestSession(t, mem).Load(context.Background())

	eng, ok := snap.Group(signoff.TargetEngineering)
	require.True(t, ok)
	assert.Empty(t, eng.Items)
	assert.Empty(t, eng.Errors)
	assert.True(t, snap.Readiness.Product)
	assert.False(t, snap.Readiness.Engineering)
	assert.False(t, snap.Readiness.Overall)
}

func TestLoadEngineeringNestedScenario(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1", item("DOC-1", "Documentation", "Done"))
	mem.AddLink("LAUNCH-1", types.Link{Type: "Implements", OutwardKey: "ENG-1"})
	mem.SetChildren("ENG-1", item("ENG-3", "ENG-1 Launch Checklist Items", "Open"))
	mem.SetChildren("ENG-3",
		item("ENG-10", "Load test", "Done"),
		item("ENG-11", "Runbook", "Done"),
		item("ENG-12", "Rollback plan", "Open"),
	)

	snap := newTestSession(t, mem).Load(context.Background())

	eng, _ := snap.Group(signoff.TargetEngineering)
	assert.Equal(t, checklist.Stats{Completed: 2, Pending: 1}, eng.Stats)
	assert.False(t, snap.Readiness.Engineering)
	assert.Equal(t, "ENG-1", eng.Items[0].ParentKey)
}

func TestLoadEngineeringErrorKeepsProduct(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1", item("DOC-1", "Documentation", "Done"))
	mem.FailLinks("LAUNCH-1", errors.New("forbidden"))

	snap := newTestSession(t, mem).Load(context.Background())

	assert.Empty(t, snap.Error)
	eng, _ := snap.Group(signoff.TargetEngineering)
	require.Len(t, eng.Errors, 1)
	assert.Contains(t, eng.Errors[0], "Failed to load engineering links")
	assert.True(t, snap.Readiness.Product)
	assert.False(t, snap.Readiness.Engineering)
}

func TestLoadPartialEngineeringFailureReported(t *testing.T) {
	mem := source.NewMemory()
	mem.AddLink("LAUNCH-1", types.Link{Type: "Implements", OutwardKey: "ENG-1"})
	mem.AddLink("LAUNCH-1", types.Link{Type: "Implements", OutwardKey: "ENG-2"})
	mem.FailChildren("ENG-1", errors.New("boom"))
	mem.SetChildren("ENG-2", item("ENG-20", "Canary", "Done"))

	snap := newTestSession(t, mem).Load(context.Background())

	eng, _ := snap.Group(signoff.TargetEngineering)
	require.Len(t, eng.Errors, 1)
	assert.Contains(t, eng.Errors[0], "ENG-1")
	assert.True(t, eng.Stats.IsReady)
	assert.True(t, snap.Readiness.Engineering)
}

func TestLoadPrimaryFailureClearsGroups(t *testing.T) {
	mem := source.NewMemory()
	mem.FailChildren("LAUNCH-1", errors.New("502 bad gateway"))
	mem.AddLink("LAUNCH-1", types.Link{Type: "Implements", OutwardKey: "ENG-1"})

	snap := newTestSession(t, mem).Load(context.Background())

	assert.Contains(t, snap.Error, "502 bad gateway")
	assert.Empty(t, snap.Groups)
	assert.Equal(t, Readiness{}, snap.Readiness)
	assert.Zero(t, mem.ChildFetches("ENG-1"))
}

func TestLoadReplacesPreviousData(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1", item("DOC-1", "Documentation", "Done"))
	s := newTestSession(t, mem)
	s.Load(context.Background())

	mem.FailChildren("LAUNCH-1", errors.New("gone"))
	snap := s.Load(context.Background())

	assert.NotEmpty(t, snap.Error)
	assert.Empty(t, snap.Groups)
	assert.False(t, snap.Readiness.Product)
}

func TestSignoffFlow(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1",
		item("DOC-1", "Documentation", "Done"),
		item("LEG-1", "Legal Review", "In Progress"),
	)
	s := newTestSession(t, mem)
	s.Load(context.Background())
	ctx := context.Background()

	s.RequestSignoff(signoff.TargetProduct)
	assert.False(t, s.ConfirmSignoff(ctx))
	assert.Equal(t, signoff.TargetProduct, s.Snapshot().Signoff.Pending)

	// The legal review finishes; readiness is re-checked on the next confirm.
	mem.SetChildren("LAUNCH-1",
		item("DOC-1", "Documentation", "Done"),
		item("LEG-1", "Legal Review", "Not Applicable"),
	)
	s.Load(ctx)
	assert.True(t, s.ConfirmSignoff(ctx))

	state := s.Snapshot().Signoff
	assert.True(t, state.ProductSignedOff)
	assert.False(t, state.EngineeringSignedOff)
	assert.Equal(t, signoff.TargetNone, state.Pending)

	s.RequestSignoff(signoff.TargetEngineering)
	s.Cancel()
	assert.Equal(t, signoff.State{ProductSignedOff: true}, s.Snapshot().Signoff)
}

func TestExtraTemplatesAndEngineeringFilter(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1",
		item("DOC-1", "Documentation", "Done"),
		item("OPS-1", "On-call rotation", "Open"),
	)
	mem.AddLink("LAUNCH-1", types.Link{Type: "Blocks", OutwardKey: "ENG-1"})
	mem.SetChildren("ENG-1",
		item("ENG-2", "Load test", "Done"),
		item("ENG-3", "Refactor", "Open"),
	)
	ops := checklist.Template{Name: "Operations", Titles: []string{"On-call"}}
	eng := checklist.Template{Name: "engineering", Titles: []string{"Load test"}}

	snap := newTestSession(t, mem, productTemplate, ops, eng).Load(context.Background())

	assert.Equal(t, []string{"Product", "engineering", "engineering: Other", "Operations", "Other"}, groupNames(snap))
	engView, _ := snap.Group(signoff.TargetEngineering)
	require.Len(t, engView.Items, 1)
	assert.Equal(t, "ENG-2", engView.Items[0].Key)

	outside := snap.Groups[2]
	assert.Equal(t, signoff.TargetEngineering, outside.Gate)
	require.Len(t, outside.Items, 1)
	assert.Equal(t, "ENG-3", outside.Items[0].Key)

	assert.False(t, snap.Readiness.Engineering, "pending item outside the template still gates engineering")
	assert.Equal(t, checklist.Stats{Completed: 1, Pending: 1}, snap.GateStats(signoff.TargetEngineering))
	assert.Equal(t, signoff.TargetNone, snap.Groups[3].Gate)
	assert.Empty(t, snap.Groups[4].Items)
}

func TestEngineeringFilterBlocksSignoff(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1",
		item("DOC-1", "Documentation", "Done"),
		item("LEG-1", "Legal Review", "Done"),
	)
	mem.AddLink("LAUNCH-1", types.Link{Type: "Implements", OutwardKey: "ENG-1"})
	mem.SetChildren("ENG-1",
		item("ENG-2", "Load test", "Done"),
		item("ENG-3", "Rollback plan", "Open"),
	)
	eng := checklist.Template{Name: "Engineering", Titles: []string{"Load test"}}
	s := newTestSession(t, mem, productTemplate, eng)
	s.Load(context.Background())

	s.RequestSignoff(signoff.TargetEngineering)
	assert.False(t, s.ConfirmSignoff(context.Background()))
	assert.False(t, s.Snapshot().Signoff.EngineeringSignedOff)

	mem.SetChildren("ENG-1",
		item("ENG-2", "Load test", "Done"),
		item("ENG-3", "Rollback plan", "Won't Do"),
	)
	snap := s.Load(context.Background())
	assert.True(t, snap.Readiness.Engineering)
	assert.True(t, s.ConfirmSignoff(context.Background()))
	assert.True(t, s.Snapshot().Signoff.EngineeringSignedOff)
}

func TestEngineeringFilterAllMatched(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1", item("DOC-1", "Documentation", "Done"))
	mem.AddLink("LAUNCH-1", types.Link{Type: "Implements", OutwardKey: "ENG-1"})
	mem.SetChildren("ENG-1", item("ENG-2", "Load test", "Done"))
	eng := checklist.Template{Name: "Engineering", Titles: []string{"Load test"}}

	snap := newTestSession(t, mem, productTemplate, eng).Load(context.Background())
	assert.Equal(t, []string{"Product", "Engineering", "Other"}, groupNames(snap))
	assert.True(t, snap.Readiness.Engineering)
}

func TestComputeReadiness(t *testing.T) {
	ready := checklist.Stats{Completed: 1, IsReady: true}
	empty := checklist.Stats{}
	tests := []struct {
		name    string
		product checklist.Stats
		eng     checklist.Stats
		engErr  string
		want    Readiness
	}{
		{"both ready", ready, ready, "", Readiness{true, true, true}},
		{"empty engineering", ready, empty, "", Readiness{Product: true}},
		{"engineering error alone", ready, empty, resolver.MissingChecklistMessage, Readiness{Product: true}},
		{"engineering error with items", ready, ready, resolver.MissingChecklistMessage, Readiness{Product: true}},
		{"empty product", empty, ready, "", Readiness{Engineering: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeReadiness(tt.product, tt.eng, tt.engErr); got != tt.want {
				t.Errorf("ComputeReadiness() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSnapshotJSON(t *testing.T) {
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1", item("DOC-1", "Documentation", "Won't Do"))
	s := newTestSession(t, mem)
	snap := s.Load(context.Background())

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s.ID, decoded["session_id"])
	groups := decoded["groups"].([]any)
	first := groups[0].(map[string]any)
	assert.Equal(t, "product", first["gate"])
	items := first["items"].([]any)
	assert.Equal(t, "not_applicable", items[0].(map[string]any)["state"])
	assert.Equal(t, "DOC-1", items[0].(map[string]any)["key"])
}

func TestRenderUsesSurface(t *testing.T) {
	s := newTestSession(t, source.NewMemory())
	var got Snapshot
	err := s.Render(SurfaceFunc(func(snap Snapshot) error {
		got = snap
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "LAUNCH-1", got.ParentKey)
	assert.NotEmpty(t, got.SessionID)
}
