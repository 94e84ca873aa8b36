package board

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the board's key bindings.
type KeyMap struct {
	Up                 key.Binding
	Down               key.Binding
	SignoffEngineering key.Binding
	SignoffProduct     key.Binding
	Confirm            key.Binding
	Cancel             key.Binding
	Refresh            key.Binding
	Help               key.Binding
	Quit               key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		SignoffEngineering: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "engineering sign-off"),
		),
		SignoffProduct: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "product sign-off"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SignoffEngineering, k.SignoffProduct, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.SignoffEngineering, k.SignoffProduct, k.Confirm, k.Cancel},
		{k.Refresh, k.Help, k.Quit},
	}
}
