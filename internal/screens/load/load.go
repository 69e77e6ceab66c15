package load

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
	"github.com/abhisek/storyforge/internal/ui/layout"
	"github.com/abhisek/storyforge/internal/ui/theme"
)

type storyLoadedMsg struct {
	Story *story.Story
	Err   error
}

// LoadScreen shows a stored story before it is played.
type LoadScreen struct {
	backend story.Backend
	rawID   string
	id      int64

	story  *story.Story
	stats  story.Stats
	loaded bool
	errMsg string
}

var _ screen.Screen = (*LoadScreen)(nil)
var _ screen.KeyHintProvider = (*LoadScreen)(nil)

// New creates the load screen for the id captured from the location.
func New(backend story.Backend, rawID string) *LoadScreen {
	return &LoadScreen{backend: backend, rawID: rawID}
}

func (s *LoadScreen) Init() tea.Cmd {
	id, err := story.ParseID(s.rawID)
	if err != nil {
		s.errMsg = fmt.Sprintf("Invalid story id %q.", s.rawID)
		s.loaded = true
		return nil
	}
	s.id = id

	backend := s.backend
	return func() tea.Msg {
		st, err := backend.Story(context.Background(), id)
		return storyLoadedMsg{Story: st, Err: err}
	}
}

func (s *LoadScreen) Title() string {
	return "Story"
}

func (s *LoadScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if s.story != nil {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Play"})
	}
	return append(hints,
		layout.KeyHint{Key: "n", Description: "New story"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// Story returns the loaded story, or nil.
func (s *LoadScreen) Story() *story.Story {
	return s.story
}

// Err returns the inline error, or "".
func (s *LoadScreen) Err() string {
	return s.errMsg
}

func (s *LoadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case storyLoadedMsg:
		s.loaded = true
		switch {
		case errors.Is(msg.Err, story.ErrStoryNotFound):
			s.errMsg = fmt.Sprintf("Story %d not found.", s.id)
		case msg.Err != nil:
			s.errMsg = "Error loading story: " + msg.Err.Error()
		default:
			s.story = msg.Story
			s.stats = story.ComputeStats(msg.Story)
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if s.story != nil {
				return s, router.Redirect(router.PlayLocation(s.story.ID))
			}
		case "n":
			return s, router.Reset(router.Home)
		}
	}
	return s, nil
}

func (s *LoadScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading story...")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.story.Title))
	b.WriteString("\n")
	if s.story.Theme != "" {
		b.WriteString(theme.Subtitle.Render("Theme: " + s.story.Theme))
		b.WriteString("\n")
	}
	if !s.story.CreatedAt.IsZero() {
		b.WriteString(theme.Hint.Render("Created " + s.story.CreatedAt.Local().Format("Jan 02, 2006 15:04")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d scenes, %d endings (%d winning), %d levels deep",
		s.stats.Nodes, s.stats.Endings, s.stats.WinningEndings, s.stats.Depth)))
	b.WriteString("\n\n")
	b.WriteString(theme.ButtonActive.Render(" Play "))

	card := theme.Card.Width(min(width-4, 70)).Render(b.String())
	return layout.Center(card, width, height)
}
