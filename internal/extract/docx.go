package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDocx parses a .docx file by streaming word/document.xml from the
// ZIP archive. Returns body paragraphs (blank entries mark empty paragraphs
// in the source) and tables (rows joined with " | ", one string per table).
func extractDocx(path string) ([]string, []string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []string
	var tables []string

	var currentText strings.Builder
	var inParagraph bool

	// Table state. Word nests paragraphs inside cells (w:tbl > w:tr > w:tc > w:p),
	// so while tableDepth > 0 paragraph text goes to the current cell instead
	// of the body paragraph list.
	var tableDepth int
	var rowCells []string
	var tableRows []string

	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					tableRows = nil
				}
			case "tr":
				if tableDepth > 0 {
					rowCells = nil
				}
			case "tc":
				if tableDepth > 0 {
					rowCells = append(rowCells, "")
				}
			case "p":
				inParagraph = true
				currentText.Reset()
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if !inParagraph {
					continue
				}
				inParagraph = false
				text := currentText.String()
				if tableDepth > 0 {
					if n := len(rowCells); n > 0 && strings.TrimSpace(text) != "" {
						if rowCells[n-1] != "" {
							rowCells[n-1] += "\n"
						}
						rowCells[n-1] += strings.TrimSpace(text)
					}
					continue
				}
				paragraphs = append(paragraphs, strings.TrimSpace(text))
			case "tr":
				if tableDepth == 0 {
					continue
				}
				var filled []string
				for _, c := range rowCells {
					if c != "" {
						filled = append(filled, c)
					}
				}
				if len(filled) > 0 {
					tableRows = append(tableRows, strings.Join(filled, " | "))
				}
			case "tbl":
				if tableDepth == 0 {
					continue
				}
				tableDepth--
				if tableDepth == 0 && len(tableRows) > 0 {
					tables = append(tables, strings.Join(tableRows, "\n"))
				}
			}
		}
	}

	return paragraphs, tables, nil
}
