package storygen

import (
	"errors"
	"fmt"

	"github.com/abhisek/storyforge/internal/story"
)

// StructuralValidator checks required fields and length limits using the
// struct tags on story.Draft.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(d *story.Draft, _ string) *ValidationError {
	if d == nil {
		return &ValidationError{Validator: v.Name(), Message: "draft is empty", Retryable: true}
	}
	err := story.ValidateStruct(d)
	if err == nil {
		return nil
	}
	msg := err.Error()
	retryable := true
	var fe *story.FieldError
	if errors.As(err, &fe) {
		msg = fmt.Sprintf("%s is invalid (%s)", fe.Field, fe.Tag)
		// The theme is copied from the caller, not written by the model.
		retryable = fe.Field != "theme"
	}
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: retryable}
}
