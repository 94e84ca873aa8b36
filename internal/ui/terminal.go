package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether stdout is a TTY.
func IsTerminal() bool {
	return isTerminalWriter(os.Stdout)
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ShouldUseColor follows the NO_COLOR / CLICOLOR / CLICOLOR_FORCE
// conventions, falling back to whether stdout is a TTY.
func ShouldUseColor() bool {
	return shouldUseColorFor(os.Stdout)
}

func shouldUseColorFor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("CLICOLOR_FORCE") != "" && os.Getenv("CLICOLOR_FORCE") != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return isTerminalWriter(w)
}

// ColorProfile picks the termenv profile for output written to w.
func ColorProfile(w io.Writer, noColor bool) termenv.Profile {
	if noColor || !shouldUseColorFor(w) {
		return termenv.Ascii
	}
	if isTerminalWriter(w) {
		return termenv.NewOutput(w).EnvColorProfile()
	}
	// Forced color on a pipe.
	return termenv.ANSI256
}

// NewRenderer returns a lipgloss renderer for w with the detected profile.
func NewRenderer(w io.Writer, noColor bool) *lipgloss.Renderer {
	profile := ColorProfile(w, noColor)
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	return r
}

// ConfigureColor applies the profile for stdout to lipgloss's default
// renderer, which the interactive board and the Render* helpers use.
func ConfigureColor(noColor bool) {
	lipgloss.SetColorProfile(ColorProfile(os.Stdout, noColor))
	DefaultStyles = NewStyles(nil)
}
