package llm

import (
	"fmt"
	"strings"
)

// BuildUserPrompt composes the analytical-essay request for one document:
// the requested essay structure, document statistics, and the document text.
// The persona's system instruction travels separately as the system message.
func BuildUserPrompt(req EssayRequest) string {
	var b strings.Builder

	b.WriteString("Write a comprehensive analytical essay about the document ")
	fmt.Fprintf(&b, "%q with the following structure, formatted in Markdown:\n\n", req.DocumentName)

	sections := []struct{ heading, brief string }{
		{"Document Overview", "Briefly describe the document's purpose and content."},
		{"Key Themes and Topics", "List and describe key themes and topics identified."},
		{"Writing Style and Structure Analysis", "Analyse the document's writing style and structure."},
		{"Main Arguments or Points Presented", "Summarise the core arguments or points."},
		{"Critical Assessment", "Provide a critical assessment."},
		{"Conclusions and Significance", "Summarise the document's significance and final thoughts."},
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n%s\n\n", s.heading, s.brief)
	}

	b.WriteString("**Document Statistics:**\n")
	fmt.Fprintf(&b, "- Word count: %d\n", req.WordCount)
	fmt.Fprintf(&b, "- Paragraph count: %d\n\n", req.ParagraphCount)

	b.WriteString("**Document Content:**\n")
	b.WriteString(req.DocumentText)
	b.WriteString("\n")

	if req.Tables != "" {
		b.WriteString("\n**Tables/Structured Data:**\n")
		b.WriteString(req.Tables)
		b.WriteString("\n")
	}

	return b.String()
}
