package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyforge/internal/ui/theme"
)

// LoadingWarning is shown under the caption while a story is generated.
const LoadingWarning = "This may take a few moments. Please do not quit or navigate away from this screen."

// LoadingCaption returns the caption for a story about storyTheme.
func LoadingCaption(storyTheme string) string {
	return fmt.Sprintf("Generating Your %s Story...", storyTheme)
}

// LoadingIndicator renders the busy view for a story about storyTheme.
// The spinner frame is owned and advanced by the caller, so the same
// inputs always render the same output.
func LoadingIndicator(storyTheme, spinnerFrame string, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(LoadingCaption(storyTheme)))
	b.WriteString("\n\n")
	b.WriteString(theme.Spinner.Render(spinnerFrame))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Width(min(width, 60)).Align(lipgloss.Center).Render(LoadingWarning))
	return b.String()
}
