package llm

// BuildPersonaJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// Persona files are validated against it at startup so a malformed persona fails
// fast instead of producing a silently wrong prompt.
func BuildPersonaJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"system":      map[string]any{"type": "string", "minLength": 1},
			"model":       map[string]any{"type": "string"},
			"temperature": map[string]any{"type": "number", "minimum": 0.0, "maximum": 2.0},
			"num_predict": map[string]any{"type": "integer", "minimum": -1},
			"top_p":       map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"system"},
	}
}
