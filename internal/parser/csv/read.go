// Package csv reads delimited text files into datasets. Cells are kept as
// raw text; the only normalization applied is a BOM strip on the first
// header cell and optional transcoding from a legacy single-byte encoding.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"tabload/internal/dataset"
)

// ReadFile parses the CSV file at path. encoding selects the source byte
// encoding; see newDecoder for the accepted names.
func ReadFile(path, encoding string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, encoding)
}

// Read parses CSV from r.
//
// The first record is the header; every following record must have the same
// field count. A ragged file is a parse error, not a skippable row, since
// the loader depends on rectangular data. Values are not trimmed.
func Read(r io.Reader, encName string) (*dataset.Dataset, error) {
	dec, err := newDecoder(encName)
	if err != nil {
		return nil, err
	}
	if dec != nil {
		r = transform.NewReader(r, dec)
	}

	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv: empty input")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([][]string, 0, 1024)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		rows = append(rows, append([]string(nil), rec...))
	}

	return dataset.New(header, rows)
}

// newDecoder maps an encoding name to a transformer. A nil transformer with
// a nil error means the input is already UTF-8.
func newDecoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", "utf-8":
		return nil, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("csv: unsupported input encoding %q", name)
	}
}
