package llm

import (
	"strings"
	"testing"
)

func TestBuildUserPrompt(t *testing.T) {
	req := EssayRequest{
		DocumentName:   "poem.docx",
		DocumentText:   "Rose\nis red",
		WordCount:      3,
		ParagraphCount: 2,
	}
	prompt := BuildUserPrompt(req)

	for _, want := range []string{
		`"poem.docx"`,
		"## Document Overview",
		"## Key Themes and Topics",
		"## Critical Assessment",
		"## Conclusions and Significance",
		"Word count: 3",
		"Paragraph count: 2",
		"Rose\nis red",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Tables/Structured Data") {
		t.Error("tables section present for a document without tables")
	}
}

func TestBuildUserPromptWithTables(t *testing.T) {
	prompt := BuildUserPrompt(EssayRequest{
		DocumentName: "report.docx",
		DocumentText: "Intro",
		Tables:       "Name | Count\nalpha | 3",
	})
	if !strings.Contains(prompt, "Tables/Structured Data") {
		t.Fatal("tables section missing")
	}
	if !strings.Contains(prompt, "alpha | 3") {
		t.Error("table rows missing from prompt")
	}
}
