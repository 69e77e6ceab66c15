// Package storygen turns a theme into a validated branching story draft
// using an LLM provider.
package storygen

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/storyforge/internal/llm"
	"github.com/abhisek/storyforge/internal/story"
)

// Generator produces story drafts.
type Generator interface {
	// Generate returns a draft that passed every configured validator.
	Generate(ctx context.Context, theme string) (*story.Draft, error)
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate asks the provider for a story about theme. Drafts rejected by a
// retryable validator are regenerated, with the rejection reason fed back
// into the prompt, up to MaxAttempts times.
func (g *LLMGenerator) Generate(ctx context.Context, theme string) (*story.Draft, error) {
	if err := story.CheckTheme(theme); err != nil {
		return nil, err
	}
	if g.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeStoryGeneration)
	log := zerolog.Ctx(ctx)
	theme = story.TrimTheme(theme)

	var feedback string
	for attempt := 1; ; attempt++ {
		d, err := g.attempt(ctx, theme, feedback)
		if err != nil {
			return nil, err
		}

		verr := g.validate(d, theme)
		if verr == nil {
			return d, nil
		}
		if !verr.Retryable || attempt >= g.config.MaxAttempts {
			return nil, verr
		}

		log.Warn().
			Int("attempt", attempt).
			Str("validator", verr.Validator).
			Str("reason", verr.Message).
			Msg("story draft rejected, regenerating")
		feedback = verr.Message
	}
}

func (g *LLMGenerator) attempt(ctx context.Context, theme, feedback string) (*story.Draft, error) {
	req := llm.Prompt(systemPrompt(g.config), buildUserMessage(theme, feedback))
	req.Schema = DraftSchema
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var d story.Draft
	if err := resp.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	d.Theme = theme
	d.FormatVersion = story.FormatVersion
	return &d, nil
}

func (g *LLMGenerator) validate(d *story.Draft, theme string) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(d, theme); verr != nil {
			return verr
		}
	}
	return nil
}

// Validate runs the default validator chain on a draft that did not come
// from the generator, such as an imported file.
func Validate(d *story.Draft) error {
	cfg := DefaultConfig()
	for _, v := range cfg.Validators {
		if verr := v.Validate(d, d.Theme); verr != nil {
			return verr
		}
	}
	return nil
}

// IsValidationError reports whether err is a rejected draft.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
