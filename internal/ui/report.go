package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/steveyegge/launchgate/internal/jira"
	"github.com/steveyegge/launchgate/internal/launch"
	"github.com/steveyegge/launchgate/internal/signoff"
)

// Messages shared by the report and the interactive board.
const (
	NoLaunchGatesHint   = "No launch gates found. Create subtasks to track launch requirements."
	NoEngineeringHint   = "No linked engineering tickets."
	StatusReady         = "READY TO LAUNCH!"
	StatusInProgress    = "IN PROGRESS"
	reportTitle         = "Launch Sign-off Status"
	itemDetailSeparator = " · "
)

// Report renders snapshots as styled plain text. It implements launch.Surface.
type Report struct {
	W       io.Writer
	Styles  Styles
	BaseURL string // Jira base URL for browse links; optional
}

// NewReport creates a report writing to w with colors detected for w.
func NewReport(w io.Writer, noColor bool) *Report {
	return &Report{W: w, Styles: NewStyles(NewRenderer(w, noColor))}
}

// Render writes the full report for snap.
func (r *Report) Render(snap launch.Snapshot) error {
	var b strings.Builder
	s := r.Styles

	fmt.Fprintf(&b, "%s %s\n", s.Title.Render(reportTitle), s.Accent.Render(snap.ParentKey))
	if url := jira.BrowseURL(r.BaseURL, snap.ParentKey); url != "" {
		b.WriteString(s.Muted.Render(url) + "\n")
	}

	if snap.Error != "" {
		fmt.Fprintf(&b, "%s\n", s.Fail.Render(IconFail+" Error: "+snap.Error))
	}
	for _, w := range snap.Warnings {
		fmt.Fprintf(&b, "%s\n", s.Warn.Render(IconWarn+" "+w))
	}

	for _, g := range snap.Groups {
		if g.Gate == signoff.TargetNone && len(g.Items) == 0 && len(g.Errors) == 0 {
			continue
		}
		b.WriteString("\n")
		r.writeGroup(&b, g, snap.GateStats(g.Gate).Total())
	}

	b.WriteString("\n" + s.RenderSeparator() + "\n")
	status := s.Warn.Render(StatusInProgress)
	if snap.Readiness.Overall {
		status = s.Pass.Render(StatusReady)
	}
	fmt.Fprintf(&b, "Launch Status: %s\n", status)
	fmt.Fprintf(&b, "Sign-off: %s  %s\n",
		r.signoffLabel(snap, signoff.TargetEngineering),
		r.signoffLabel(snap, signoff.TargetProduct))

	_, err := io.WriteString(r.W, b.String())
	return err
}

// gated is the item count across every group sharing g's gate.
func (r *Report) writeGroup(b *strings.Builder, g launch.GroupView, gated int) {
	s := r.Styles
	header := s.RenderCategory(g.Name)
	if g.Gate != signoff.TargetNone {
		header += s.Muted.Render(fmt.Sprintf(" (gates %s sign-off)", g.Gate))
	}
	b.WriteString(header + "\n")

	for _, e := range g.Errors {
		fmt.Fprintf(b, "  %s\n", s.Warn.Render(IconWarn+" "+e))
	}

	if len(g.Items) == 0 {
		switch {
		case g.Gate == signoff.TargetProduct:
			fmt.Fprintf(b, "  %s\n", s.Muted.Render(NoLaunchGatesHint))
		case g.Gate == signoff.TargetEngineering && len(g.Errors) == 0 && gated == 0:
			fmt.Fprintf(b, "  %s\n", s.Muted.Render(NoEngineeringHint))
		}
		return
	}

	if g.Gate != signoff.TargetNone {
		fmt.Fprintf(b, "  %s\n", s.Muted.Render(ProgressLine(g)))
	}
	for _, it := range g.Items {
		fmt.Fprintf(b, "  %s %s  %s\n", s.StateIcon(it.State), s.Accent.Render(it.Key), it.TrimmedSummary())
		details := []string{it.Status, it.AssigneeOrDefault(), it.PriorityOrDefault()}
		if it.ParentKey != "" {
			details = append(details, "via "+it.ParentKey)
		}
		fmt.Fprintf(b, "    %s\n", s.Muted.Render(strings.Join(details, itemDetailSeparator)))
	}
}

// ProgressLine summarizes a group as "N of M items completed".
func ProgressLine(g launch.GroupView) string {
	line := fmt.Sprintf("Progress: %d of %d items completed", g.Stats.Completed, g.Stats.Total())
	if g.Stats.NotApplicable > 0 {
		line += fmt.Sprintf(", %d not applicable", g.Stats.NotApplicable)
	}
	return line
}

// SignoffStatus describes one target's sign-off state in words.
func SignoffStatus(snap launch.Snapshot, t signoff.Target) string {
	switch {
	case snap.Signoff.SignedOff(t):
		return "signed off"
	case snap.Signoff.Pending == t:
		return "awaiting confirmation"
	case snap.Readiness.Ready(t):
		return "ready to sign off"
	default:
		return "not ready"
	}
}

func (r *Report) signoffLabel(snap launch.Snapshot, t signoff.Target) string {
	s := r.Styles
	label := t.Title() + " " + SignoffStatus(snap, t)
	switch {
	case snap.Signoff.SignedOff(t):
		return s.Pass.Render(IconPass + " " + label)
	case snap.Readiness.Ready(t):
		return s.Accent.Render(label)
	default:
		return s.Muted.Render(label)
	}
}

// NotReadyReason explains why target cannot be signed off yet.
func NotReadyReason(snap launch.Snapshot, t signoff.Target) string {
	if snap.Error != "" {
		return "Launch gates could not be loaded: " + snap.Error
	}
	stats := snap.GateStats(t)
	if stats.Total() == 0 {
		if g, ok := snap.Group(t); ok && len(g.Errors) > 0 {
			return g.Errors[0]
		}
		return fmt.Sprintf("The %s checklist has no items yet.", t.Title())
	}
	return fmt.Sprintf("%d of %d %s items are still pending.", stats.Pending, stats.Total(), t.Title())
}

// JSONReport renders snapshots as indented JSON. It implements launch.Surface.
type JSONReport struct {
	W io.Writer
}

// Render writes snap as JSON.
func (r JSONReport) Render(snap launch.Snapshot) error {
	enc := json.NewEncoder(r.W)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
