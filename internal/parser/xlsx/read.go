// Package xlsx reads spreadsheet workbooks into datasets using excelize.
// Only the first sheet is loaded; the first non-empty row is the header and
// every cell is read as displayed text.
package xlsx

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"tabload/internal/dataset"
)

// ReadFile parses the workbook at path.
func ReadFile(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a workbook from r.
//
// Rows shorter than the header are padded with empty cells (excelize omits
// trailing blanks); rows wider than the header are an error because the
// extra cells have no column to land in.
func Read(r io.Reader) (*dataset.Dataset, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: workbook has no sheets")
	}
	sheet := sheets[0]

	iter, err := wb.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: sheet %s: %w", sheet, err)
	}
	defer iter.Close()

	var (
		header []string
		rows   [][]string
		line   int
	)
	for iter.Next() {
		line++
		cells, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("xlsx: sheet %s row %d: %w", sheet, line, err)
		}

		if header == nil {
			if len(cells) == 0 {
				continue // leading blank rows before the header
			}
			header = cells
			continue
		}

		if len(cells) > len(header) {
			return nil, fmt.Errorf("xlsx: sheet %s row %d has %d cells, header has %d", sheet, line, len(cells), len(header))
		}
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		rows = append(rows, cells)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("xlsx: sheet %s: %w", sheet, err)
	}
	if header == nil {
		return nil, fmt.Errorf("xlsx: sheet %s is empty", sheet)
	}

	return dataset.New(header, rows)
}
