package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of both views
type KeyMap struct {
	// Setup view
	Start    key.Binding
	NextType key.Binding
	PrevType key.Binding

	// Session view
	Stop key.Binding

	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		NextType: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→/tab", "next type"),
		),
		PrevType: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←", "previous type"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s", "esc"),
			key.WithHelp("s/esc", "stop"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) setupHelp() []key.Binding {
	return []key.Binding{k.Start, k.NextType, k.PrevType, k.Quit}
}

func (k KeyMap) sessionHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Quit}
}
