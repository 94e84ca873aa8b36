package board

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steveyegge/launchgate/internal/checklist"
	"github.com/steveyegge/launchgate/internal/launch"
	"github.com/steveyegge/launchgate/internal/signoff"
	"github.com/steveyegge/launchgate/internal/source"
	"github.com/steveyegge/launchgate/internal/types"
)

func newTestBoard(t *testing.T, productDone bool) (*Model, *launch.Session) {
	t.Helper()
	status := "In Progress"
	if productDone {
		status = "Done"
	}
	mem := source.NewMemory()
	mem.SetChildren("LAUNCH-1",
		types.Item{Key: "DOC-1", Summary: "Documentation", Status: "Done"},
		types.Item{Key: "LEG-1", Summary: "Legal Review", Status: status},
	)
	session := launch.NewSession("LAUNCH-1", mem, launch.Options{
		Templates: []checklist.Template{{Name: "Product", Titles: []string{"Documentation", "Legal Review"}}},
	})
	m := New(session, Options{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, session
}

// load performs a synchronous load and feeds the result to the model.
func load(m *Model, session *launch.Session) {
	m.Update(loadedMsg{snap: session.Load(context.Background())})
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	m, _ := newTestBoard(t, false)
	if !m.loading {
		t.Error("new board should start loading")
	}
	if m.loaded {
		t.Error("new board should not be loaded")
	}
	if !strings.Contains(m.View(), "Fetching checklist") {
		t.Errorf("View() before load = %q", m.View())
	}
}

func TestLoadedMsgRendersChecklist(t *testing.T) {
	m, session := newTestBoard(t, false)
	load(m, session)

	if m.loading || !m.loaded {
		t.Fatalf("loading=%v loaded=%v after loadedMsg", m.loading, m.loaded)
	}
	view := m.View()
	for _, want := range []string{"LAUNCH-1", "DOC-1", "Legal Review", "IN PROGRESS"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if !strings.HasPrefix(m.status, "Updated") {
		t.Errorf("status = %q, want Updated ...", m.status)
	}
}

func TestSignoffNotReadyKeepsModalOpen(t *testing.T) {
	m, session := newTestBoard(t, false)
	load(m, session)

	m.Update(keyMsg("p"))
	if m.snap.Signoff.Pending != signoff.TargetProduct {
		t.Fatalf("pending = %v, want product", m.snap.Signoff.Pending)
	}
	if !strings.Contains(m.View(), "Not ready to sign off") {
		t.Errorf("modal should explain not-ready state:\n%s", m.View())
	}

	m.Update(keyMsg("y"))
	if m.snap.Signoff.ProductSignedOff {
		t.Error("product signed off while not ready")
	}
	if m.snap.Signoff.Pending != signoff.TargetProduct {
		t.Error("modal closed after rejected confirmation")
	}
	if !strings.Contains(m.status, "1 of 2 Product items are still pending") {
		t.Errorf("status = %q", m.status)
	}

	m.Update(keyMsg("esc"))
	if m.snap.Signoff.Pending != signoff.TargetNone {
		t.Error("esc did not close the modal")
	}
}

func TestSignoffConfirmWhenReady(t *testing.T) {
	m, session := newTestBoard(t, true)
	load(m, session)

	m.Update(keyMsg("p"))
	if !strings.Contains(m.View(), "Record the sign-off") {
		t.Errorf("modal should ask for confirmation:\n%s", m.View())
	}
	m.Update(keyMsg("enter"))

	if !m.snap.Signoff.ProductSignedOff {
		t.Fatal("product not signed off after confirm")
	}
	if m.snap.Signoff.Pending != signoff.TargetNone {
		t.Error("modal still open after confirm")
	}
	if m.status != "Product sign-off recorded" {
		t.Errorf("status = %q", m.status)
	}

	// A second request is refused without opening the modal.
	m.Update(keyMsg("p"))
	if m.snap.Signoff.Pending != signoff.TargetNone {
		t.Error("modal reopened for a completed sign-off")
	}
}

func TestLateReloadKeepsSignoffModal(t *testing.T) {
	m, session := newTestBoard(t, true)
	load(m, session)

	// A reload finishes before the request but is delivered after it.
	late := loadedMsg{snap: session.Load(context.Background())}
	m.Update(keyMsg("p"))
	m.Update(late)

	if m.snap.Signoff.Pending != signoff.TargetProduct {
		t.Fatalf("pending after late reload = %v, want product", m.snap.Signoff.Pending)
	}
	if !strings.Contains(m.View(), "Record the sign-off") {
		t.Errorf("modal closed by late reload:\n%s", m.View())
	}

	m.Update(keyMsg("y"))
	if !m.snap.Signoff.ProductSignedOff {
		t.Error("product not signed off after confirming")
	}
}

func TestEngineeringNeverReadyWithoutLinks(t *testing.T) {
	m, session := newTestBoard(t, true)
	load(m, session)

	m.Update(keyMsg("e"))
	m.Update(keyMsg("y"))
	if m.snap.Signoff.EngineeringSignedOff {
		t.Error("engineering signed off with an empty checklist")
	}
	if !strings.Contains(m.status, "The Engineering checklist has no items yet.") {
		t.Errorf("status = %q", m.status)
	}
}

func TestRefreshKeyStartsLoad(t *testing.T) {
	m, session := newTestBoard(t, false)
	load(m, session)

	_, cmd := m.Update(keyMsg("r"))
	if !m.loading {
		t.Error("r did not start a reload")
	}
	if cmd == nil {
		t.Error("r returned no command")
	}

	// A second refresh while loading is ignored.
	m.status = ""
	m.Update(keyMsg("r"))
	if m.status != "" {
		t.Errorf("status changed while already loading: %q", m.status)
	}
}

func TestTickSchedulesReload(t *testing.T) {
	m, session := newTestBoard(t, false)
	m.opts.RefreshInterval = time.Minute
	load(m, session)

	_, cmd := m.Update(tickMsg(time.Now()))
	if !m.loading {
		t.Error("tick did not start a reload")
	}
	if cmd == nil {
		t.Error("tick returned no command")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestBoard(t, false)
	m.Update(keyMsg("?"))
	if !m.showHelp || !m.help.ShowAll {
		t.Error("? did not enable full help")
	}
	m.Update(keyMsg("?"))
	if m.showHelp {
		t.Error("? did not toggle help off")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestBoard(t, false)
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestKeyMapHelp(t *testing.T) {
	k := DefaultKeyMap()
	if len(k.ShortHelp()) == 0 || len(k.FullHelp()) != 3 {
		t.Errorf("unexpected help layout: short=%d full=%d", len(k.ShortHelp()), len(k.FullHelp()))
	}
}
