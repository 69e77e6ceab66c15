package create

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyforge/internal/router"
	"github.com/abhisek/storyforge/internal/screen"
	"github.com/abhisek/storyforge/internal/story"
	"github.com/abhisek/storyforge/internal/ui/components"
	"github.com/abhisek/storyforge/internal/ui/layout"
	"github.com/abhisek/storyforge/internal/ui/theme"
)

// DefaultPollInterval is used when no interval is configured.
const DefaultPollInterval = time.Second

// FailurePrefix starts the message shown when a generation job fails.
const FailurePrefix = "Story generation failed: "

type submitMsg struct {
	theme string
}

type jobMsg struct {
	job *story.Job
	err error
}

type pollMsg struct {
	jobID string
}

// CreateScreen collects a theme, starts a generation job and waits for it.
type CreateScreen struct {
	backend   story.Backend
	sessionID string
	poll      time.Duration

	form    components.ThemeForm
	spinner spinner.Model

	generating bool
	storyTheme string
	jobID      string
	failure    string
}

var _ screen.Screen = (*CreateScreen)(nil)
var _ screen.KeyHintProvider = (*CreateScreen)(nil)
var _ screen.Busy = (*CreateScreen)(nil)

// New creates the create screen. A non-positive poll uses DefaultPollInterval.
func New(backend story.Backend, sessionID string, poll time.Duration) *CreateScreen {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &CreateScreen{
		backend:   backend,
		sessionID: sessionID,
		poll:      poll,
		form: components.NewThemeForm(func(t string) tea.Cmd {
			return func() tea.Msg { return submitMsg{theme: t} }
		}),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *CreateScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *CreateScreen) Title() string {
	return "New Story"
}

func (s *CreateScreen) KeyHints() []layout.KeyHint {
	if s.generating {
		return []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Busy reports whether a generation job is outstanding.
func (s *CreateScreen) Busy() bool {
	return s.generating
}

// Generating returns the theme being generated and whether a job is running.
func (s *CreateScreen) Generating() (string, bool) {
	return s.storyTheme, s.generating
}

// Failure returns the last generation failure, or "".
func (s *CreateScreen) Failure() string {
	return s.failure
}

// Form exposes the theme form.
func (s *CreateScreen) Form() *components.ThemeForm {
	return &s.form
}

func (s *CreateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitMsg:
		if s.generating {
			return s, nil
		}
		s.generating = true
		s.storyTheme = msg.theme
		s.jobID = ""
		s.failure = ""
		return s, tea.Batch(s.spinner.Tick, s.createJob(msg.theme))

	case jobMsg:
		return s, s.handleJob(msg)

	case pollMsg:
		if !s.generating || msg.jobID != s.jobID {
			return s, nil
		}
		return s, s.fetchJob(msg.jobID)

	case spinner.TickMsg:
		if !s.generating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	if s.generating {
		return s, nil
	}
	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *CreateScreen) handleJob(msg jobMsg) tea.Cmd {
	if !s.generating {
		return nil
	}
	if msg.err != nil {
		s.fail(msg.err.Error())
		return nil
	}
	job := msg.job
	s.jobID = job.ID

	switch job.Status {
	case story.JobCompleted:
		s.generating = false
		return router.Navigate(router.StoryLocation(job.StoryID))
	case story.JobFailed:
		reason := job.Error
		if reason == "" {
			reason = "unknown error"
		}
		s.fail(reason)
		return nil
	}

	jobID := job.ID
	return tea.Tick(s.poll, func(time.Time) tea.Msg {
		return pollMsg{jobID: jobID}
	})
}

func (s *CreateScreen) fail(reason string) {
	s.generating = false
	s.jobID = ""
	s.failure = FailurePrefix + reason
}

func (s *CreateScreen) createJob(storyTheme string) tea.Cmd {
	backend, sessionID := s.backend, s.sessionID
	return func() tea.Msg {
		job, err := backend.CreateJob(context.Background(), storyTheme, sessionID)
		return jobMsg{job: job, err: err}
	}
}

func (s *CreateScreen) fetchJob(jobID string) tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		job, err := backend.Job(context.Background(), jobID)
		return jobMsg{job: job, err: err}
	}
}

func (s *CreateScreen) View(width, height int) string {
	if s.generating {
		return layout.Center(
			components.LoadingIndicator(s.storyTheme, s.spinner.View(), width),
			width, height,
		)
	}

	var b strings.Builder
	if s.failure != "" {
		b.WriteString(theme.ErrorText.Width(min(width-4, 60)).Render(s.failure))
		b.WriteString("\n\n")
	}
	b.WriteString(s.form.View(width))

	return layout.Center(
		lipgloss.NewStyle().Align(lipgloss.Left).Render(b.String()),
		width, height,
	)
}
