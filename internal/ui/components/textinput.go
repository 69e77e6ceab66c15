package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyforge/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a bordered box that turns red
// while Invalid is set.
type TextInput struct {
	Model   textinput.Model
	Invalid bool
}

// NewTextInput creates a focused text input. charLimit 0 means unlimited.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = charLimit
	ti.Focus()
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input inside its box, width columns wide.
func (t TextInput) View(width int) string {
	box := theme.InputBox
	if t.Invalid {
		box = theme.InputBoxError
	}
	m := t.Model
	if inner := width - box.GetHorizontalFrameSize() - len([]rune(m.Prompt)) - 1; inner > 0 {
		m.SetWidth(inner)
	}
	return box.Width(width).Render(m.View())
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}
