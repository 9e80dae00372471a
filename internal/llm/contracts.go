package llm

import "context"

// EssayRequest carries one document's extracted content to the generator.
type EssayRequest struct {
	DocumentName   string // base name of the source file, used in the prompt
	DocumentText   string // newline-joined paragraphs, blank lines preserved
	Tables         string // " | "-joined table rows, empty when none
	WordCount      int
	ParagraphCount int
}

// Generator is the interface the pipeline depends on. One blocking call per
// document; failures are classed common.ErrGeneration. Implementations must
// return the model output verbatim, with no post-processing or truncation.
type Generator interface {
	GenerateEssay(ctx context.Context, req EssayRequest) (string, error)
}
