package create

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyforge/internal/router"
	"github.com/abhisek/storyforge/internal/story"
	"github.com/abhisek/storyforge/internal/story/storytest"
	"github.com/abhisek/storyforge/internal/ui/components"
)

// run executes cmd and flattens batches into the resulting messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func typeText(s *CreateScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter(s *CreateScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

// submit presses Enter and delivers the resulting submit message, returning
// the job message produced by CreateJob.
func submit(t *testing.T, s *CreateScreen) jobMsg {
	t.Helper()
	msgs := run(enter(s))
	if len(msgs) != 1 {
		t.Fatalf("expected one submit message, got %d", len(msgs))
	}
	_, cmd := s.Update(msgs[0])
	for _, m := range run(cmd) {
		if jm, ok := m.(jobMsg); ok {
			return jm
		}
	}
	t.Fatal("expected a job message")
	return jobMsg{}
}

func newScreen(b story.Backend) *CreateScreen {
	s := New(b, "sess-1", time.Millisecond)
	s.Init()
	return s
}

func TestCreateScreen_Title(t *testing.T) {
	s := newScreen(storytest.New())
	if s.Title() != "New Story" {
		t.Errorf("Title = %q, want %q", s.Title(), "New Story")
	}
}

func TestCreateScreen_BlankThemeShowsError(t *testing.T) {
	b := storytest.New()
	s := newScreen(b)
	typeText(s, "   ")

	if cmd := enter(s); cmd != nil {
		t.Fatal("expected no command for a blank theme")
	}
	if s.Form().Error() != story.EmptyThemeMessage {
		t.Errorf("error = %q, want %q", s.Form().Error(), story.EmptyThemeMessage)
	}
	if _, generating := s.Generating(); generating {
		t.Error("blank theme must not start generation")
	}
	if len(b.Themes()) != 0 {
		t.Errorf("backend called with %v", b.Themes())
	}
	if !strings.Contains(s.View(100, 30), story.EmptyThemeMessage) {
		t.Error("expected error in view")
	}
}

func TestCreateScreen_SubmitPassesUntrimmedTheme(t *testing.T) {
	b := storytest.New()
	s := newScreen(b)
	typeText(s, "  space  ")

	jm := submit(t, s)
	if jm.err != nil {
		t.Fatalf("unexpected error: %v", jm.err)
	}
	if got := b.Themes(); len(got) != 1 || got[0] != "  space  " {
		t.Fatalf("themes = %q, want [\"  space  \"]", got)
	}
	if !s.Busy() {
		t.Error("expected screen to be busy while generating")
	}
	if !strings.Contains(s.View(100, 30), components.LoadingCaption("  space  ")) {
		t.Error("expected loading caption in view")
	}
}

func TestCreateScreen_PollsUntilCompleted(t *testing.T) {
	b := storytest.New()
	s := newScreen(b)
	typeText(s, "pirates")

	jm := submit(t, s)
	_, cmd := s.Update(jm)
	msgs := run(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected a poll message, got %v", msgs)
	}

	b.Complete(jm.job.ID, storytest.Sample(42))

	_, cmd = s.Update(msgs[0])
	msgs = run(cmd)
	_, cmd = s.Update(msgs[0])
	msgs = run(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected a navigation message, got %v", msgs)
	}
	nav, ok := msgs[0].(router.NavigateMsg)
	if !ok {
		t.Fatalf("expected NavigateMsg, got %T", msgs[0])
	}
	if nav.Location != "/stories/42" {
		t.Errorf("location = %q, want /stories/42", nav.Location)
	}
	if s.Busy() {
		t.Error("expected screen to stop generating")
	}
}

func TestCreateScreen_FailedJobKeepsDraft(t *testing.T) {
	b := storytest.New()
	s := newScreen(b)
	typeText(s, "pirates")

	jm := submit(t, s)
	b.Fail(jm.job.ID, "LLM generation failed: boom")
	_, cmd := s.Update(jm)
	_, cmd = s.Update(run(cmd)[0])
	_, cmd = s.Update(run(cmd)[0])
	if cmd != nil {
		t.Fatal("expected no command after failure")
	}

	if s.Busy() {
		t.Error("expected screen to stop generating")
	}
	want := FailurePrefix + "LLM generation failed: boom"
	if s.Failure() != want {
		t.Errorf("failure = %q, want %q", s.Failure(), want)
	}
	if s.Form().Draft() != "pirates" {
		t.Errorf("draft = %q, want pirates", s.Form().Draft())
	}
	if !strings.Contains(s.View(100, 30), "Story generation failed") {
		t.Error("expected failure in view")
	}
}

func TestCreateScreen_CreateError(t *testing.T) {
	b := storytest.New()
	b.CreateErr = errors.New("connection refused")
	s := newScreen(b)
	typeText(s, "pirates")

	jm := submit(t, s)
	s.Update(jm)

	if s.Busy() {
		t.Error("expected screen to stop generating")
	}
	if s.Failure() != FailurePrefix+"connection refused" {
		t.Errorf("failure = %q", s.Failure())
	}
}

func TestCreateScreen_PasteReachesForm(t *testing.T) {
	b := storytest.New()
	s := newScreen(b)
	s.Update(tea.PasteMsg{Content: "pirates"})
	if s.Form().Draft() != "pirates" {
		t.Fatalf("draft after paste = %q", s.Form().Draft())
	}

	submit(t, s)
	if got := b.Themes(); len(got) != 1 || got[0] != "pirates" {
		t.Errorf("themes = %q", got)
	}
}

func TestCreateScreen_ThemeTooLong(t *testing.T) {
	b := storytest.New()
	s := newScreen(b)
	s.Update(tea.PasteMsg{Content: strings.Repeat("a", story.MaxThemeLength+1)})

	jm := submit(t, s)
	s.Update(jm)

	if s.Busy() {
		t.Error("expected screen to stop generating")
	}
	if s.Failure() != FailurePrefix+story.LongThemeMessage {
		t.Errorf("failure = %q", s.Failure())
	}
	if len([]rune(s.Form().Draft())) != story.MaxThemeLength+1 {
		t.Errorf("draft was cut to %d runes", len([]rune(s.Form().Draft())))
	}
}

func TestCreateScreen_IgnoresKeysWhileGenerating(t *testing.T) {
	b := storytest.New()
	s := newScreen(b)
	typeText(s, "pirates")
	submit(t, s)

	typeText(s, "xyz")
	if cmd := enter(s); cmd != nil {
		t.Error("expected Enter to be ignored while generating")
	}
	if s.Form().Draft() != "pirates" {
		t.Errorf("draft = %q, want pirates", s.Form().Draft())
	}
	if len(b.Themes()) != 1 {
		t.Errorf("expected one CreateJob call, got %d", len(b.Themes()))
	}
}

func TestCreateScreen_StalePollIgnored(t *testing.T) {
	s := newScreen(storytest.New())
	if _, cmd := s.Update(pollMsg{jobID: "job-1"}); cmd != nil {
		t.Error("expected poll to be ignored when idle")
	}
}
