package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook renders rows into an in-memory workbook, starting at
// startRow so tests can leave leading blank rows.
func buildWorkbook(t *testing.T, startRow int, rows ...[]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestRead_Basic(t *testing.T) {
	t.Parallel()

	buf := buildWorkbook(t, 1,
		[]any{"id", "name"},
		[]any{"1", "alice"},
		[]any{"2", "bob"},
	)

	ds, err := Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	names := ds.ColumnNames()
	if names[0] != "id" || names[1] != "name" {
		t.Fatalf("header = %v", names)
	}
	if ds.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", ds.RowCount())
	}
	if row := ds.Row(1); row[1] != "bob" {
		t.Fatalf("Row(1) = %v", row)
	}
}

// Numeric cells come back as their displayed text, which is what the type
// resolver expects to work on.
func TestRead_NumericCellsAsText(t *testing.T) {
	t.Parallel()

	buf := buildWorkbook(t, 1,
		[]any{"n"},
		[]any{42},
	)

	ds, err := Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := ds.Row(0)[0]; got != "42" {
		t.Fatalf("cell = %q, want %q", got, "42")
	}
}

// Trailing blank cells are omitted by the row iterator; the reader must pad
// them back so the dataset stays rectangular.
func TestRead_PadsShortRows(t *testing.T) {
	t.Parallel()

	buf := buildWorkbook(t, 1,
		[]any{"a", "b", "c"},
		[]any{"only"},
	)

	ds, err := Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	row := ds.Row(0)
	if len(row) != 3 || row[0] != "only" || row[1] != "" || row[2] != "" {
		t.Fatalf("Row(0) = %v, want padded to 3 cells", row)
	}
}

func TestRead_SkipsLeadingBlankRows(t *testing.T) {
	t.Parallel()

	buf := buildWorkbook(t, 3,
		[]any{"id"},
		[]any{"1"},
	)

	ds, err := Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := ds.ColumnNames()[0]; got != "id" {
		t.Fatalf("header = %q, want %q", got, "id")
	}
	if ds.RowCount() != 1 {
		t.Fatalf("RowCount = %d, want 1", ds.RowCount())
	}
}

func TestRead_EmptySheetIsError(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	if _, err := Read(buf); err == nil {
		t.Fatalf("expected error for empty sheet")
	}
}

func TestRead_GarbageInputIsError(t *testing.T) {
	t.Parallel()

	if _, err := Read(bytes.NewReader([]byte("not a zip archive"))); err == nil {
		t.Fatalf("expected error for non-workbook input")
	}
}
