package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Persona is the external model-persona configuration: the system
// instruction plus generation parameters, loaded once at startup.
// It plays the role a Modelfile plays for a raw Ollama setup, but is
// backend-neutral.
type Persona struct {
	Name        string   `yaml:"name" json:"name"`
	System      string   `yaml:"system" json:"system"`
	Model       string   `yaml:"model,omitempty" json:"model,omitempty"` // overrides the configured model when set
	Temperature *float32 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	NumPredict  *int     `yaml:"num_predict,omitempty" json:"num_predict,omitempty"`
	TopP        *float32 `yaml:"top_p,omitempty" json:"top_p,omitempty"`
}

// DefaultPersona is used when no persona file is configured.
func DefaultPersona() Persona {
	return Persona{
		Name: "literary-analyst",
		System: "You are a thoughtful literary analyst. You write clear, well-structured " +
			"analytical essays in Markdown, grounded strictly in the document you are given. " +
			"Do not invent content that is not supported by the document.",
	}
}

// LoadPersona reads and validates a YAML persona file. The decoded document
// is round-tripped through JSON and checked against the persona schema, so
// unknown keys and out-of-range parameters fail at startup.
func LoadPersona(path string) (Persona, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("read persona file: %w", err)
	}

	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return Persona{}, fmt.Errorf("parse persona yaml: %w", err)
	}
	jsonDoc, err := json.Marshal(generic)
	if err != nil {
		return Persona{}, fmt.Errorf("normalize persona: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildPersonaJSONSchema(), jsonDoc); err != nil {
		return Persona{}, fmt.Errorf("persona %s: %w", path, err)
	}

	var p Persona
	if err := json.Unmarshal(jsonDoc, &p); err != nil {
		return Persona{}, fmt.Errorf("decode persona: %w", err)
	}
	return p, nil
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
