package play

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyforge/internal/router"
	"github.com/abhisek/storyforge/internal/screen"
	"github.com/abhisek/storyforge/internal/story"
	"github.com/abhisek/storyforge/internal/ui/components"
	"github.com/abhisek/storyforge/internal/ui/layout"
	"github.com/abhisek/storyforge/internal/ui/theme"
)

const (
	WinMessage  = "Congratulations! You reached a winning ending!"
	LoseMessage = "The End. This story did not end well for you."
)

type storyLoadedMsg struct {
	Story *story.Story
	Err   error
}

type chooseMsg struct {
	index int
}

type restartMsg struct{}

// PlayScreen walks the player through a story one choice at a time.
type PlayScreen struct {
	backend story.Backend
	rawID   string
	id      int64

	game   *story.Game
	menu   components.Menu
	errMsg string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// New creates the play screen for the id captured from the location.
func New(backend story.Backend, rawID string) *PlayScreen {
	return &PlayScreen{backend: backend, rawID: rawID}
}

func (s *PlayScreen) Init() tea.Cmd {
	id, err := story.ParseID(s.rawID)
	if err != nil {
		s.errMsg = fmt.Sprintf("Invalid story id %q.", s.rawID)
		return nil
	}
	s.id = id

	backend := s.backend
	return func() tea.Msg {
		st, err := backend.Story(context.Background(), id)
		return storyLoadedMsg{Story: st, Err: err}
	}
}

func (s *PlayScreen) Title() string {
	if s.game != nil {
		return s.game.Story().Title
	}
	return "Play"
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	if s.game == nil {
		return []layout.KeyHint{
			{Key: "n", Description: "New story"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "1-9", Description: "Choose"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if s.game.Steps() > 0 {
		hints = append(hints, layout.KeyHint{Key: "b", Description: "Back a step"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
}

// Game returns the game in progress, or nil until the story has loaded.
func (s *PlayScreen) Game() *story.Game {
	return s.game
}

// Err returns the inline error, or "".
func (s *PlayScreen) Err() string {
	return s.errMsg
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case storyLoadedMsg:
		s.load(msg)
		return s, nil

	case chooseMsg:
		if s.game == nil {
			return s, nil
		}
		if err := s.game.Choose(msg.index); err != nil {
			s.errMsg = err.Error()
		} else {
			s.errMsg = ""
		}
		s.refreshMenu()
		return s, nil

	case restartMsg:
		if s.game != nil {
			s.game.Restart()
			s.errMsg = ""
			s.refreshMenu()
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "n":
			return s, router.Reset(router.Home)
		case "b":
			if s.game != nil && s.game.Back() {
				s.errMsg = ""
				s.refreshMenu()
			}
			return s, nil
		}
		if s.game == nil {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayScreen) load(msg storyLoadedMsg) {
	switch {
	case errors.Is(msg.Err, story.ErrStoryNotFound):
		s.errMsg = fmt.Sprintf("Story %d not found.", s.id)
		return
	case msg.Err != nil:
		s.errMsg = "Error loading story: " + msg.Err.Error()
		return
	}
	game, err := story.NewGame(msg.Story)
	if err != nil {
		s.errMsg = "This story has no beginning."
		return
	}
	s.game = game
	s.refreshMenu()
}

// refreshMenu rebuilds the menu for the current node: its options while
// the story goes on, or the ending actions once it is over.
func (s *PlayScreen) refreshMenu() {
	if s.game.Over() {
		s.menu = components.NewMenu([]components.MenuItem{
			{Label: "Play again", Action: func() tea.Cmd { return emit(restartMsg{}) }},
			{Label: "New story", Action: func() tea.Cmd { return router.Reset(router.Home) }},
		})
		s.menu.Numbered = true
		return
	}

	node := s.game.Current()
	items := make([]components.MenuItem, len(node.Options))
	for i, opt := range node.Options {
		index := i
		items[i] = components.MenuItem{
			Label:  opt.Text,
			Action: func() tea.Cmd { return emit(chooseMsg{index: index}) },
		}
	}
	s.menu = components.NewMenu(items)
	s.menu.Numbered = true
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (s *PlayScreen) View(width, height int) string {
	if s.game == nil {
		if s.errMsg != "" {
			return lipgloss.NewStyle().
				Width(width).Align(lipgloss.Center).Foreground(theme.Error).
				Render("\n\n" + s.errMsg)
		}
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading story...")
	}

	cardWidth := min(width-4, 76)
	node := s.game.Current()

	var b strings.Builder
	b.WriteString(theme.Body.Width(cardWidth - 6).Render(node.Content))
	b.WriteString("\n\n")

	if s.game.Over() {
		if s.game.Won() {
			b.WriteString(theme.WinBanner.Render(WinMessage))
		} else {
			b.WriteString(theme.LoseBanner.Render(LoseMessage))
		}
		b.WriteString("\n\n")
	} else {
		b.WriteString(theme.Subtitle.Render("What will you do?"))
		b.WriteString("\n")
	}
	b.WriteString(s.menu.View())

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}

	card := theme.Card.Width(cardWidth).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "\n"+card)
}
