package storygen

import "github.com/abhisek/storyforge/internal/llm"

// DraftSchema is the JSON schema of the flat story draft the model
// returns. Nodes are listed flat and linked by id because not every
// provider supports recursive schemas.
var DraftSchema = &llm.Schema{
	Name:        "story-draft",
	Description: "A complete branching choose-your-own-adventure story",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A compelling story title",
			},
			"root": map[string]any{
				"type":        "string",
				"description": "Id of the starting node",
			},
			"nodes": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Short unique node id, e.g. \"n1\"",
						},
						"content": map[string]any{
							"type":        "string",
							"description": "What happens at this point of the story",
						},
						"is_ending": map[string]any{
							"type":        "boolean",
							"description": "True when the story ends here",
						},
						"is_winning_ending": map[string]any{
							"type":        "boolean",
							"description": "True when this ending is a win",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "Choices offered to the reader; empty for endings",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"text": map[string]any{
										"type":        "string",
										"description": "The choice as shown to the reader",
									},
									"next": map[string]any{
										"type":        "string",
										"description": "Id of the node this choice leads to",
									},
								},
								"required":             []any{"text", "next"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"id", "content", "is_ending", "is_winning_ending", "options"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "root", "nodes"},
		"additionalProperties": false,
	},
}
