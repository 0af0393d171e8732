// Package parser turns a source file into a dataset.Dataset. Format is
// chosen by file extension; every cell is read as text with no coercion.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"tabload/internal/dataset"
	"tabload/internal/parser/csv"
	"tabload/internal/parser/xlsx"
)

// ReadFile parses path into a Dataset. Supported extensions are .csv
// (delimited text, optionally in a legacy encoding) and .xlsx/.xlsm
// (spreadsheet workbook, first sheet). Anything else is a configuration
// error raised before any database interaction.
func ReadFile(path, encoding string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csv.ReadFile(path, encoding)
	case ".xlsx", ".xlsm":
		return xlsx.ReadFile(path)
	default:
		return nil, fmt.Errorf("parser: unsupported file type %q (use .csv, .xlsx or .xlsm)", filepath.Ext(path))
	}
}
