package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/imamik/modsetup/internal/engine"
)

// KeyMap holds the key bindings of the setup screen.
type KeyMap struct {
	Confirm key.Binding
	Skip    key.Binding
	Yes     key.Binding
	No      key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter", "continue"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// bindings pairs each intent with its key, in footer order.
func (k KeyMap) bindings() []struct {
	intent  engine.Intent
	binding key.Binding
} {
	return []struct {
		intent  engine.Intent
		binding key.Binding
	}{
		{engine.IntentConfirm, k.Confirm},
		{engine.IntentChooseYes, k.Yes},
		{engine.IntentChooseNo, k.No},
		{engine.IntentSkip, k.Skip},
	}
}
