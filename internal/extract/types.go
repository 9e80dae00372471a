package extract

import "strings"

// Format identifies a document type.
type Format string

const (
	FormatDocx Format = "docx"
	FormatODT  Format = "odt"
	FormatPDF  Format = "pdf"
	FormatTXT  Format = "txt"
	FormatMD   Format = "md"
)

// Document is the result of extracting one source file. Paragraph order
// matches the source; empty paragraphs are kept so that paragraph
// boundaries survive into the prompt as blank lines.
type Document struct {
	Path           string
	Format         Format
	Paragraphs     []string
	Tables         []string // one entry per table, rows joined with " | "
	WordCount      int
	ParagraphCount int // paragraphs with content, blank separators excluded
}

// Text returns the newline-join of the document's paragraphs.
func (d *Document) Text() string {
	return strings.Join(d.Paragraphs, "\n")
}
