package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractODT parses an .odt file by reading content.xml from the ZIP archive.
// Headings and body paragraphs are flattened into one paragraph sequence.
func extractODT(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var contentFile *zip.File
	for _, f := range r.File {
		if f.Name == "content.xml" {
			contentFile = f
			break
		}
	}
	if contentFile == nil {
		return nil, fmt.Errorf("content.xml not found in archive")
	}

	rc, err := contentFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open content.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []string
	var currentText strings.Builder
	var inText bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse content.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			// <text:p> and <text:h> both carry readable content.
			if t.Name.Local == "p" || t.Name.Local == "h" {
				inText = true
				currentText.Reset()
			}

		case xml.CharData:
			if inText {
				currentText.Write(t)
			}

		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "h") && inText {
				inText = false
				paragraphs = append(paragraphs, strings.TrimSpace(currentText.String()))
			}
		}
	}

	return paragraphs, nil
}
