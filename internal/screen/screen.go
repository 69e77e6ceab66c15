// Package screen defines what the router stacks: one full-screen view
// addressed by a location.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyforge/internal/ui/layout"
)

// Screen is a view the router can push. The app draws the header and
// footer; View fills the space between them.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Busy screens cannot be left with Esc while Busy reports true.
type Busy interface {
	Busy() bool
}
