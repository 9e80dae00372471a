// Package report renders a run summary as an XLSX workbook.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docmill/docmill/internal/pipeline"
)

const sheet = "Run"

// BuildXLSX returns a workbook (as bytes) with one row per processed file.
func BuildXLSX(results []pipeline.FileResult, stats pipeline.RunStats, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Source File",
		"Status",
		"Word Count",
		"Paragraphs",
		"Essay Path",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Path)
		write(2, string(r.Status))
		write(3, r.WordCount)
		write(4, r.ParagraphCount)
		write(5, r.EssayPath)
		write(6, r.Err)
		row++
	}

	// Summary block below the table.
	row++
	summary := []string{
		fmt.Sprintf("Found: %d", stats.Found),
		fmt.Sprintf("Succeeded: %d", stats.Succeeded),
		fmt.Sprintf("Failed: %d", stats.Failed),
	}
	for _, s := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheet, cell, s)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	logger.Info("report.built",
		"rows", len(results),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
