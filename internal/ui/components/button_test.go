package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

type pressedMsg struct{}

func TestButton_Press(t *testing.T) {
	b := NewButton("Go", func() tea.Cmd {
		return func() tea.Msg { return pressedMsg{} }
	})

	for _, key := range []tea.KeyPressMsg{{Code: tea.KeyEnter}, {Code: tea.KeySpace, Text: " "}} {
		_, cmd := b.Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected a command", key.String())
		}
		if _, ok := cmd().(pressedMsg); !ok {
			t.Errorf("%s: unexpected message", key.String())
		}
	}

	if _, cmd := b.Update(tea.KeyPressMsg{Code: 'x', Text: "x"}); cmd != nil {
		t.Error("other keys must not press the button")
	}
}

func TestButton_Disabled(t *testing.T) {
	b := NewButton("Go", func() tea.Cmd { return tea.Quit })
	b.Disabled = true
	if _, cmd := b.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("disabled button must ignore Enter")
	}
}
