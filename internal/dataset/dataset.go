// Package dataset holds the in-memory representation of a parsed tabular
// file: an ordered list of named columns over a rectangular grid of text
// cells, plus the identifier sanitization applied to column names before any
// database work.
package dataset

import (
	"fmt"
)

// Dataset is a rectangular grid of raw text cells. It is produced once by a
// parser, has its column names sanitized once, and is then read-only for the
// rest of the run.
type Dataset struct {
	names []string
	rows  [][]string
}

// New validates rectangularity and builds a Dataset. Every row must have
// exactly one cell per column name.
func New(names []string, rows [][]string) (*Dataset, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("dataset: no columns")
	}
	for i, r := range rows {
		if len(r) != len(names) {
			return nil, fmt.Errorf("dataset: row %d has %d cells, want %d", i+1, len(r), len(names))
		}
	}
	return &Dataset{names: names, rows: rows}, nil
}

// ColumnNames returns the column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	return append([]string(nil), d.names...)
}

// ColumnCount returns the number of columns.
func (d *Dataset) ColumnCount() int { return len(d.names) }

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int { return len(d.rows) }

// Row returns the i-th row in column order. The returned slice is shared;
// callers must not mutate it.
func (d *Dataset) Row(i int) []string { return d.rows[i] }

// Column materializes the i-th column across all rows.
func (d *Dataset) Column(i int) []string {
	out := make([]string, len(d.rows))
	for r := range d.rows {
		out[r] = d.rows[r][i]
	}
	return out
}

// SanitizeColumns rewrites every column name through Sanitize and fails fast
// when two raw names collapse to the same identifier or a name sanitizes to
// nothing usable. Silently overwriting a column binding would drop data, so
// collisions are a configuration error, not a warning.
func (d *Dataset) SanitizeColumns() error {
	seen := make(map[string]string, len(d.names))
	out := make([]string, len(d.names))
	for i, raw := range d.names {
		s := Sanitize(raw)
		if s == "" || s == "_" {
			return fmt.Errorf("dataset: column %d (%q) sanitizes to an empty identifier", i+1, raw)
		}
		if prev, ok := seen[s]; ok {
			return fmt.Errorf("dataset: columns %q and %q both sanitize to %q", prev, raw, s)
		}
		seen[s] = raw
		out[i] = s
	}
	d.names = out
	return nil
}
