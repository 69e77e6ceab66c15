package storygen

import (
	"fmt"

	"github.com/abhisek/storyforge/internal/story"
)

// Validator checks a story draft. Implementations are stateless and safe
// for concurrent use.
type Validator interface {
	// Name returns a short identifier used in errors and logs,
	// e.g. "structural" or "graph".
	Name() string

	// Validate returns nil if the draft passes.
	Validate(d *story.Draft, theme string) *ValidationError
}

// ValidationError describes why a draft failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
