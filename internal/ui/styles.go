// Package ui provides terminal styling and the plain/JSON launch reports.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/steveyegge/launchgate/internal/checklist"
)

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	// Semantic status colors (Ayu theme - adaptive light/dark)
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
)

// Status icons - consistent semantic indicators
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconSkip = "-"
)

// SeparatorLight is the rule drawn between report sections.
const SeparatorLight = "──────────────────────────────────────────"

// Styles is the palette bound to one lipgloss renderer, so output written
// to a pipe or with --no-color degrades to plain text.
type Styles struct {
	Pass     lipgloss.Style
	Warn     lipgloss.Style
	Fail     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Category lipgloss.Style
	Title    lipgloss.Style
}

// NewStyles builds the palette for r. A nil renderer uses lipgloss's default.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Pass:     r.NewStyle().Foreground(ColorPass),
		Warn:     r.NewStyle().Foreground(ColorWarn),
		Fail:     r.NewStyle().Foreground(ColorFail),
		Muted:    r.NewStyle().Foreground(ColorMuted),
		Accent:   r.NewStyle().Foreground(ColorAccent),
		Category: r.NewStyle().Bold(true).Foreground(ColorAccent),
		Title:    r.NewStyle().Bold(true),
	}
}

// DefaultStyles is the palette for the default renderer (stdout).
var DefaultStyles = NewStyles(nil)

// RenderCategory renders a category header in uppercase with accent color
func (s Styles) RenderCategory(text string) string {
	return s.Category.Render(strings.ToUpper(text))
}

// RenderSeparator renders the light separator line in muted color
func (s Styles) RenderSeparator() string {
	return s.Muted.Render(SeparatorLight)
}

// StateIcon renders the indicator for a classified item.
func (s Styles) StateIcon(state checklist.State) string {
	switch state {
	case checklist.StateDone:
		return s.Pass.Render(IconPass)
	case checklist.StateNotApplicable:
		return s.Muted.Render(IconSkip)
	default:
		return s.Fail.Render(IconFail)
	}
}

// RenderPass renders text with pass (green) styling
func RenderPass(text string) string {
	return DefaultStyles.Pass.Render(text)
}

// RenderWarn renders text with warning (yellow) styling
func RenderWarn(text string) string {
	return DefaultStyles.Warn.Render(text)
}

// RenderFail renders text with fail (red) styling
func RenderFail(text string) string {
	return DefaultStyles.Fail.Render(text)
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(text string) string {
	return DefaultStyles.Muted.Render(text)
}

// RenderAccent renders text with accent (blue) styling
func RenderAccent(text string) string {
	return DefaultStyles.Accent.Render(text)
}
