package storygen

import "github.com/abhisek/storyforge/internal/story"

// OutcomeValidator checks that the story can be won and that only
// endings are marked as wins.
type OutcomeValidator struct{}

func (v *OutcomeValidator) Name() string { return "outcome" }

func (v *OutcomeValidator) Validate(d *story.Draft, _ string) *ValidationError {
	wins := 0
	for _, n := range d.Nodes {
		if n.IsWinningEnding && !n.IsEnding {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "node " + n.ID + " is a winning ending but not an ending",
				Retryable: true,
			}
		}
		if n.IsWinningEnding {
			wins++
		}
	}
	if wins == 0 {
		return &ValidationError{Validator: v.Name(), Message: "story has no winning ending", Retryable: true}
	}
	return nil
}
