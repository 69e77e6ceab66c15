package play

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyforge/internal/router"
	"github.com/abhisek/storyforge/internal/story"
	"github.com/abhisek/storyforge/internal/story/storytest"
)

func started(t *testing.T) *PlayScreen {
	t.Helper()
	s := New(storytest.New(storytest.Sample(9)), "9")
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	s.Update(cmd())
	if s.Game() == nil {
		t.Fatalf("expected game, got error %q", s.Err())
	}
	return s
}

// press sends a key and delivers the resulting message back to the screen.
func press(s *PlayScreen, key tea.KeyPressMsg) tea.Msg {
	_, cmd := s.Update(key)
	if cmd == nil {
		return nil
	}
	msg := cmd()
	s.Update(msg)
	return msg
}

func digit(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestPlayScreen_TitleIsStoryTitle(t *testing.T) {
	s := started(t)
	if s.Title() != "The Sunken Bell" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestPlayScreen_WinningPath(t *testing.T) {
	s := started(t)

	press(s, digit('2'))
	if s.Game().Current().ID != 3 {
		t.Fatalf("current = %d, want 3", s.Game().Current().ID)
	}
	press(s, digit('1'))
	if !s.Game().Won() {
		t.Fatal("expected a win")
	}
	view := s.View(100, 30)
	if !strings.Contains(view, WinMessage) {
		t.Error("expected win banner")
	}
	if !strings.Contains(view, "Play again") || !strings.Contains(view, "New story") {
		t.Error("expected ending actions")
	}
}

func TestPlayScreen_LosingPath(t *testing.T) {
	s := started(t)

	press(s, digit('1'))
	if !s.Game().Over() || s.Game().Won() {
		t.Fatal("expected a losing ending")
	}
	if !strings.Contains(s.View(100, 30), LoseMessage) {
		t.Error("expected lose banner")
	}
}

func TestPlayScreen_ArrowsAndEnter(t *testing.T) {
	s := started(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	press(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.Game().Current().ID != 3 {
		t.Fatalf("current = %d, want 3", s.Game().Current().ID)
	}
}

func TestPlayScreen_BackStepsOneChoice(t *testing.T) {
	s := started(t)

	press(s, digit('2'))
	press(s, digit('b'))
	if s.Game().Current().ID != 1 {
		t.Errorf("current = %d, want 1", s.Game().Current().ID)
	}
	press(s, digit('b'))
	if s.Game().Current().ID != 1 {
		t.Errorf("back at the root moved to %d", s.Game().Current().ID)
	}
}

func TestPlayScreen_PlayAgainRestarts(t *testing.T) {
	s := started(t)

	press(s, digit('1'))
	press(s, digit('1'))
	if s.Game().Steps() != 0 || s.Game().Current().ID != 1 {
		t.Errorf("expected restart at root, got node %d after %d steps", s.Game().Current().ID, s.Game().Steps())
	}
}

func TestPlayScreen_NewStoryResets(t *testing.T) {
	s := started(t)

	press(s, digit('1'))
	_, cmd := s.Update(digit('2'))
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	nav, ok := cmd().(router.NavigateMsg)
	if !ok || nav.Location != router.Home || !nav.Reset {
		t.Errorf("nav = %+v, want reset to /", nav)
	}
}

func TestPlayScreen_NotFound(t *testing.T) {
	s := New(storytest.New(), "7")
	s.Update(s.Init()())

	if s.Game() != nil {
		t.Fatal("expected no game")
	}
	if s.Err() != "Story 7 not found." {
		t.Errorf("Err = %q", s.Err())
	}
	if !strings.Contains(s.View(100, 30), "not found") {
		t.Error("expected error in view")
	}
}

func TestPlayScreen_MissingRoot(t *testing.T) {
	st := storytest.Sample(9)
	st.RootID = 99
	s := New(storytest.New(st), "9")
	s.Update(s.Init()())

	if s.Game() != nil {
		t.Fatal("expected no game")
	}
	if s.Err() == "" {
		t.Error("expected an error")
	}
}

func TestPlayScreen_BrokenLinkShowsError(t *testing.T) {
	st := storytest.Sample(9)
	st.Nodes[1].Options = append(st.Nodes[1].Options, story.Option{Text: "Vanish", NodeID: 404})
	s := New(storytest.New(st), "9")
	s.Update(s.Init()())

	press(s, digit('3'))
	if s.Game().Current().ID != 1 {
		t.Errorf("current = %d, want 1", s.Game().Current().ID)
	}
	if s.Err() == "" {
		t.Error("expected an inline error")
	}
}
