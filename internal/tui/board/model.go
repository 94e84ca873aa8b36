// Package board provides a Bubbletea TUI for watching a parent item's
// launch gates and recording the engineering and product sign-offs.
// Data is reloaded on a timer and on demand; sign-offs last for the
// lifetime of the program only.
package board

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/steveyegge/launchgate/internal/launch"
	"github.com/steveyegge/launchgate/internal/signoff"
	"github.com/steveyegge/launchgate/internal/ui"
)

const loadTimeout = 60 * time.Second

// Options configures the board.
type Options struct {
	RefreshInterval time.Duration // zero disables periodic reloads
	BaseURL         string        // Jira base URL for browse links
}

// Model is the Bubbletea model for lg watch.
type Model struct {
	// Dimensions
	width, height int

	// Data
	session *launch.Session
	snap    launch.Snapshot
	loading bool
	loaded  bool

	// UI state
	keys     KeyMap
	help     help.Model
	showHelp bool
	spinner  spinner.Model
	viewport viewport.Model
	status   string
	opts     Options
}

// New creates a board for session.
func New(session *launch.Session, opts Options) *Model {
	h := help.New()
	h.ShowAll = false

	return &Model{
		session:  session,
		snap:     session.Snapshot(),
		loading:  true,
		keys:     DefaultKeyMap(),
		help:     h,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport: viewport.New(0, 0),
		opts:     opts,
	}
}

// loadedMsg is sent when a reload finishes.
type loadedMsg struct {
	snap launch.Snapshot
}

// tickMsg is sent on each refresh interval.
type tickMsg time.Time

// Init starts the first load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.load(),
		m.spinner.Tick,
		m.scheduleRefresh(),
		tea.SetWindowTitle("lg watch "+m.session.ParentKey),
	)
}

func (m *Model) load() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return loadedMsg{snap: session.Load(ctx)}
	}
}

func (m *Model) scheduleRefresh() tea.Cmd {
	if m.opts.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-4)
		m.refreshContent()

	case tea.KeyMsg:
		if m.snap.Signoff.Pending != signoff.TargetNone {
			return m, m.handleModalKey(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp

		case key.Matches(msg, m.keys.SignoffEngineering):
			m.requestSignoff(signoff.TargetEngineering)

		case key.Matches(msg, m.keys.SignoffProduct):
			m.requestSignoff(signoff.TargetProduct)

		case key.Matches(msg, m.keys.Refresh):
			if !m.loading {
				m.loading = true
				m.status = "Refreshing..."
				cmds = append(cmds, m.load(), m.spinner.Tick)
			}

		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)

		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		}

	case loadedMsg:
		m.loading = false
		m.loaded = true
		// The message may predate a sign-off request; the session owns that state.
		m.snap = msg.snap
		m.snap.Signoff = m.session.Snapshot().Signoff
		if m.snap.Error != "" {
			m.status = "Load failed"
		} else {
			m.status = "Updated " + m.snap.LoadedAt.Format("15:04:05")
		}
		m.refreshContent()

	case tickMsg:
		if !m.loading {
			m.loading = true
			cmds = append(cmds, m.load(), m.spinner.Tick)
		}
		cmds = append(cmds, m.scheduleRefresh())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) requestSignoff(t signoff.Target) {
	if m.snap.Signoff.SignedOff(t) {
		m.status = t.Title() + " is already signed off"
		return
	}
	m.session.RequestSignoff(t)
	m.snap = m.session.Snapshot()
	m.status = ""
}

// handleModalKey handles keys while the sign-off modal is open.
func (m *Model) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	target := m.snap.Signoff.Pending
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.session.ConfirmSignoff(context.Background()) {
			m.status = target.Title() + " sign-off recorded"
		} else {
			m.status = "Cannot sign off: " + ui.NotReadyReason(m.snap, target)
		}
	case key.Matches(msg, m.keys.Cancel):
		m.session.Cancel()
		m.status = ""
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	}
	m.snap = m.session.Snapshot()
	m.refreshContent()
	return nil
}

// refreshContent re-renders the checklist into the viewport.
func (m *Model) refreshContent() {
	var buf bytes.Buffer
	report := &ui.Report{W: &buf, Styles: ui.DefaultStyles, BaseURL: m.opts.BaseURL}
	if err := report.Render(m.snap); err != nil {
		m.viewport.SetContent(errorStyle.Render(err.Error()))
		return
	}
	m.viewport.SetContent(buf.String())
}

// View renders the TUI.
func (m *Model) View() string {
	if m.snap.Signoff.Pending != signoff.TargetNone {
		modal := m.renderModal()
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return modal
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Launch gates · " + m.session.ParentKey))
	if m.loading {
		b.WriteString(" " + m.spinner.View() + " Loading...")
	}
	b.WriteString("\n")

	if !m.loaded {
		b.WriteString(statusStyle.Render("Fetching checklist...") + "\n")
	} else {
		b.WriteString(m.viewport.View() + "\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderModal() string {
	target := m.snap.Signoff.Pending
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(fmt.Sprintf("%s sign-off", target.Title())))
	b.WriteString("\n")

	if m.snap.Readiness.Ready(target) {
		b.WriteString(successStyle.Render(fmt.Sprintf("All %s launch gates are resolved.", strings.ToLower(target.Title()))))
		b.WriteString("\n\nRecord the sign-off for this session?\n\n")
		b.WriteString(helpStyle.Render("y/enter confirm · n/esc cancel"))
	} else {
		b.WriteString(errorStyle.Render("Not ready to sign off."))
		b.WriteString("\n" + ui.NotReadyReason(m.snap, target) + "\n\n")
		b.WriteString(helpStyle.Render("n/esc close"))
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	return modalStyle.Render(b.String())
}
