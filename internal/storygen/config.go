package storygen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every draft; the first failure stops
	// the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAttempts bounds regeneration after retryable validation failures.
	MaxAttempts int

	// MinDepth and MaxDepth bound the story depth in levels, root included.
	MinDepth int
	MaxDepth int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	cfg := Config{
		MaxTokens:   8192,
		Temperature: 0.7,
		MaxAttempts: 3,
		MinDepth:    3,
		MaxDepth:    6,
	}
	cfg.Validators = DefaultValidators(cfg.MaxDepth)
	return cfg
}

// DefaultValidators returns the standard chain for the given depth limit.
func DefaultValidators(maxDepth int) []Validator {
	return []Validator{
		&StructuralValidator{},
		&GraphValidator{MaxDepth: maxDepth},
		&OutcomeValidator{},
	}
}
