package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/storyforge/internal/router"
	"github.com/abhisek/storyforge/internal/screen"
	"github.com/abhisek/storyforge/internal/screens/create"
	"github.com/abhisek/storyforge/internal/screens/load"
	"github.com/abhisek/storyforge/internal/screens/notfound"
	"github.com/abhisek/storyforge/internal/screens/play"
	"github.com/abhisek/storyforge/internal/story"
	"github.com/abhisek/storyforge/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Backend      story.Backend
	SessionID    string
	PollInterval time.Duration

	// Start is the initial location; empty means router.Home.
	Start  string
	Logger *zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	log    zerolog.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel showing opts.Start.
func newAppModel(opts Options) AppModel {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	start := opts.Start
	if start == "" {
		start = router.Home
	}
	return AppModel{
		router: router.New(Resolver(opts), start),
		log:    log,
	}
}

// Resolver maps locations to screens using the routing table. Unmatched
// locations get the not-found screen.
func Resolver(opts Options) router.Resolver {
	return func(location string) screen.Screen {
		route, params, ok := router.Match(location)
		if !ok {
			return notfound.New(location)
		}
		switch route.Name {
		case router.RouteCreate:
			return create.New(opts.Backend, opts.SessionID, opts.PollInterval)
		case router.RouteLoad:
			return load.New(opts.Backend, params.Get("id"))
		case router.RoutePlay:
			return play.New(opts.Backend, params.Get("id"))
		}
		return notfound.New(location)
	}
}

func (m AppModel) Init() tea.Cmd {
	m.log.Debug().Str("location", m.router.Location()).Msg("start")
	return m.router.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.NavigateMsg:
		m.log.Debug().
			Str("from", m.router.Location()).
			Str("to", msg.Location).
			Bool("replace", msg.Replace).
			Bool("reset", msg.Reset).
			Msg("navigate")

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if busy, ok := m.router.Active().(screen.Busy); ok && busy.Busy() {
				return m, nil
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if frame := m.render(); frame != "" {
		v.SetContent(frame)
	}
	return v
}

// render draws the full frame, or "" before the first window size arrives.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.router.Location(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Backend == nil {
		return fmt.Errorf("app: no story backend configured")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
