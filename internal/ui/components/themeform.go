package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyforge/internal/story"
	"github.com/abhisek/storyforge/internal/ui/theme"
)

// ThemeForm collects a story theme and hands each valid submission to
// onSubmit exactly once.
type ThemeForm struct {
	input    TextInput
	submit   Button
	onSubmit func(theme string) tea.Cmd
	err      string
}

// NewThemeForm creates a form that calls onSubmit with the untrimmed draft
// whenever Enter is pressed on a non-blank theme.
func NewThemeForm(onSubmit func(theme string) tea.Cmd) ThemeForm {
	return ThemeForm{
		input:    NewTextInput("Enter theme...", 0),
		submit:   NewButton("Generate Story", nil),
		onSubmit: onSubmit,
	}
}

// Init focuses the text field.
func (f ThemeForm) Init() tea.Cmd {
	return f.input.Init()
}

// Update consumes Enter as a submission and forwards everything else,
// pastes and cursor blinks included, to the text field. The field turns
// tabs and newlines into spaces. Typing never clears a previous error.
func (f ThemeForm) Update(msg tea.Msg) (ThemeForm, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return f.Submit()
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// Submit validates the draft. A blank draft sets the error and returns no
// command; otherwise the result of onSubmit is returned. Neither the draft
// nor the error is cleared.
func (f ThemeForm) Submit() (ThemeForm, tea.Cmd) {
	draft := f.input.Value()
	if err := story.ValidateTheme(draft); err != nil {
		f.err = story.EmptyThemeMessage
		f.input.Invalid = true
		return f, nil
	}
	if f.onSubmit == nil {
		return f, nil
	}
	return f, f.onSubmit(draft)
}

// Draft returns the current, untrimmed input.
func (f ThemeForm) Draft() string {
	return f.input.Value()
}

// SetDraft replaces the input as if the user had typed s.
func (f *ThemeForm) SetDraft(s string) {
	f.input.SetValue(s)
}

// Error returns the validation message, or "".
func (f ThemeForm) Error() string {
	return f.err
}

// View renders the form width columns wide.
func (f ThemeForm) View(width int) string {
	fieldWidth := width - 8
	if fieldWidth > 60 {
		fieldWidth = 60
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Generate Your Own Adventure"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("Enter a theme for your interactive story:"))
	b.WriteString("\n")
	b.WriteString(f.input.View(fieldWidth))
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(theme.ErrorText.Render(f.err))
	}
	b.WriteString("\n\n")
	b.WriteString(f.submit.View())

	return lipgloss.NewStyle().Width(fieldWidth).Render(b.String())
}
