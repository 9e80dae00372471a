package output

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderHTML converts an essay's Markdown to a standalone HTML fragment.
func RenderHTML(markdown string) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
