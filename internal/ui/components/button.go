package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyforge/internal/ui/theme"
)

// Button fires OnPress when Enter or Space is pressed. A disabled button
// renders dimmed and ignores keys.
type Button struct {
	Label    string
	Disabled bool
	OnPress  func() tea.Cmd
}

func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, OnPress: onPress}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || b.Disabled || b.OnPress == nil {
		return b, nil
	}
	switch key.String() {
	case "enter", "space":
		return b, b.OnPress()
	}
	return b, nil
}

func (b Button) View() string {
	style := theme.ButtonActive
	if b.Disabled {
		style = theme.ButtonInactive
	}
	return style.Render(" " + b.Label + " ")
}
