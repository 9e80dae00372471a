package llm

import (
	"os"
	"path/filepath"
	"testing"
)

func writePersona(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "persona.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPersona(t *testing.T) {
	path := writePersona(t, `
name: historian
system: You analyse documents as a historian.
model: llama3.2
temperature: 0.4
num_predict: 2048
`)
	p, err := LoadPersona(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "historian" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Model != "llama3.2" {
		t.Errorf("Model = %q", p.Model)
	}
	if p.Temperature == nil || *p.Temperature != 0.4 {
		t.Errorf("Temperature = %v", p.Temperature)
	}
	if p.NumPredict == nil || *p.NumPredict != 2048 {
		t.Errorf("NumPredict = %v", p.NumPredict)
	}
}

func TestLoadPersonaRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing system", "name: broken\n"},
		{"unknown key", "system: ok\nstyle: florid\n"},
		{"temperature out of range", "system: ok\ntemperature: 9.5\n"},
		{"not yaml", ": : :\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePersona(t, tt.content)
			if _, err := LoadPersona(path); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadPersonaMissingFile(t *testing.T) {
	if _, err := LoadPersona(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultPersona(t *testing.T) {
	p := DefaultPersona()
	if p.System == "" {
		t.Fatal("default persona has no system instruction")
	}
	if p.Model != "" {
		t.Error("default persona must not override the configured model")
	}
}
