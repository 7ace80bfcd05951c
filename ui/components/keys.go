package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap documents the global bindings. The core event loop interprets the
// keys; this exists so the hint line and the bindings stay in one place.
type keyMap struct {
	Views   key.Binding
	Focus   key.Binding
	Move    key.Binding
	Select  key.Binding
	Refresh key.Binding
	Dismiss key.Binding
	Copy    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Views: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "views"),
	),
	Focus: key.NewBinding(
		key.WithKeys("left", "right"),
		key.WithHelp("←/→", "focus"),
	),
	Move: key.NewBinding(
		key.WithKeys("up", "down"),
		key.WithHelp("↑/↓", "move"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "dismiss banner"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy key"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func hintLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
