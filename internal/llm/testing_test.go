package llm

// optionSchema is a small story-shaped schema shared by provider tests.
func optionSchema() *Schema {
	return &Schema{
		Name:        "test-story-option",
		Description: "One choice in a story",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":      map[string]any{"type": "string", "minLength": 1},
				"next":      map[string]any{"type": "string"},
				"is_ending": map[string]any{"type": "boolean"},
				"mood":      map[string]any{"type": "string", "enum": []any{"hopeful", "grim"}},
			},
			"required":             []string{"text", "next"},
			"additionalProperties": false,
		},
	}
}
