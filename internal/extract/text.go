package extract

import (
	"os"
	"strings"
)

// extractText reads a plain-text (or Markdown) file and splits it into
// paragraphs on line boundaries, mirroring the paragraph granularity of the
// word-processor formats. Trailing whitespace per line is dropped; interior
// blank lines stay, so paragraph breaks survive.
func extractText(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil, nil
	}

	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines, nil
}
