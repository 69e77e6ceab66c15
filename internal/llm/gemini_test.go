package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"depth": map[string]any{"type": "integer"},
			"mood":  map[string]any{"type": "string", "enum": []any{"hopeful", "grim"}},
			"options": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": 3,
				"items": map[string]any{
					"type":       "object",
					"properties": map[string]any{"text": map[string]any{"type": "string"}},
					"required":   []string{"text"},
				},
			},
		},
		"required": []any{"title", "options"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["depth"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for depth, got %s", schema.Properties["depth"].Type)
	}
	if len(schema.Properties["mood"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(schema.Properties["mood"].Enum))
	}
	opts := schema.Properties["options"]
	if opts.Type != "ARRAY" || opts.Items.Type != "OBJECT" {
		t.Fatalf("unexpected options schema: %+v", opts)
	}
	if opts.MinItems == nil || *opts.MinItems != 2 || opts.MaxItems == nil || *opts.MaxItems != 3 {
		t.Fatalf("expected item bounds 2..3, got %v..%v", opts.MinItems, opts.MaxItems)
	}
	if len(opts.Items.Required) != 1 {
		t.Fatalf("expected []string required to be kept, got %v", opts.Items.Required)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}
