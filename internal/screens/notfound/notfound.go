package notfound

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyforge/internal/router"
	"github.com/abhisek/storyforge/internal/screen"
	"github.com/abhisek/storyforge/internal/ui/components"
	"github.com/abhisek/storyforge/internal/ui/layout"
	"github.com/abhisek/storyforge/internal/ui/theme"
)

// NotFoundScreen is shown for locations that match no route.
type NotFoundScreen struct {
	location string
	home     components.Button
}

var _ screen.Screen = (*NotFoundScreen)(nil)
var _ screen.KeyHintProvider = (*NotFoundScreen)(nil)

// New creates the screen for an unmatched location.
func New(location string) *NotFoundScreen {
	return &NotFoundScreen{
		location: location,
		home: components.NewButton("Create a new story", func() tea.Cmd {
			return router.Reset(router.Home)
		}),
	}
}

func (s *NotFoundScreen) Init() tea.Cmd { return nil }

func (s *NotFoundScreen) Title() string { return "Not Found" }

func (s *NotFoundScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "New story"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *NotFoundScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.home, cmd = s.home.Update(msg)
	return s, cmd
}

func (s *NotFoundScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Nothing here"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("No screen lives at %q.", s.location)))
	b.WriteString("\n\n")
	b.WriteString(s.home.View())
	return layout.Center(b.String(), width, height)
}
