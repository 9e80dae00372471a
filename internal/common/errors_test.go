package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClassing(t *testing.T) {
	cause := fmt.Errorf("open zip: bad magic")

	tests := []struct {
		err   error
		class error
	}{
		{NotFoundError("input directory /nope", nil), ErrNotFound},
		{ExtractionError("a.docx", cause), ErrExtraction},
		{GenerationError("ollama call", cause), ErrGeneration},
		{IOError("write essay", cause), ErrIO},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.class) {
			t.Errorf("%v not classed as %v", tt.err, tt.class)
		}
		if errors.Is(tt.err, ErrInvalidInput) {
			t.Errorf("%v wrongly classed as ErrInvalidInput", tt.err)
		}
	}

	if !errors.Is(ExtractionError("a.docx", cause), cause) {
		t.Error("underlying cause lost in wrapping")
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := ExtractionError("a.docx", fmt.Errorf("bad magic"))
	got := err.Error()
	for _, want := range []string{"EXTRACTION_ERROR", "a.docx", "bad magic"} {
		if !strings.Contains(got, want) {
			t.Errorf("error string %q missing %q", got, want)
		}
	}
}
