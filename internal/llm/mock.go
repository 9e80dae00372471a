package llm

import "context"

// MockGenerator is a deterministic stand-in for local runs and tests: it
// prefixes the document text instead of calling a model service.
type MockGenerator struct {
	Prefix string // defaults to "ESSAY:"
	Err    error  // returned verbatim when set
}

func (m MockGenerator) GenerateEssay(_ context.Context, req EssayRequest) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	prefix := m.Prefix
	if prefix == "" {
		prefix = "ESSAY:"
	}
	return prefix + req.DocumentText, nil
}
