package dataset

import (
	"strings"
	"testing"
)

func TestNew_RejectsRaggedRows(t *testing.T) {
	t.Parallel()

	_, err := New([]string{"a", "b"}, [][]string{
		{"1", "2"},
		{"3"},
	})
	if err == nil {
		t.Fatalf("expected error for ragged rows")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("error does not name the offending row: %v", err)
	}
}

func TestNew_RejectsNoColumns(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error for empty header")
	}
}

func TestDataset_Accessors(t *testing.T) {
	t.Parallel()

	ds, err := New([]string{"id", "name"}, [][]string{
		{"1", "alice"},
		{"2", "bob"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := ds.ColumnCount(); got != 2 {
		t.Fatalf("ColumnCount = %d, want 2", got)
	}
	if got := ds.RowCount(); got != 2 {
		t.Fatalf("RowCount = %d, want 2", got)
	}
	if got := ds.Row(1); got[0] != "2" || got[1] != "bob" {
		t.Fatalf("Row(1) = %v", got)
	}
	if got := ds.Column(1); got[0] != "alice" || got[1] != "bob" {
		t.Fatalf("Column(1) = %v", got)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Order ID", "order_id"},
		{"order_id", "order_id"},
		{"Unit Price ($)", "unit_price_"},
		{"état", "_tat"},
		{"a--b..c", "a_b_c"},
		{"ALLCAPS", "allcaps"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Order ID", "Unit Price ($)", "weird  spacing"} {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestSanitize_TruncatesLongNames(t *testing.T) {
	t.Parallel()

	got := Sanitize(strings.Repeat("a", 200))
	if len(got) != identMaxLen {
		t.Fatalf("len = %d, want %d", len(got), identMaxLen)
	}
}

func TestSanitizeColumns_RewritesInPlace(t *testing.T) {
	t.Parallel()

	ds, err := New([]string{"Order ID", "Unit Price"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ds.SanitizeColumns(); err != nil {
		t.Fatalf("SanitizeColumns: %v", err)
	}
	names := ds.ColumnNames()
	if names[0] != "order_id" || names[1] != "unit_price" {
		t.Fatalf("names = %v", names)
	}
}

// Two raw headers collapsing to one identifier would silently drop a
// column, so it must be an error.
func TestSanitizeColumns_RejectsCollisions(t *testing.T) {
	t.Parallel()

	ds, err := New([]string{"Order ID", "order id"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = ds.SanitizeColumns()
	if err == nil {
		t.Fatalf("expected collision error")
	}
	if !strings.Contains(err.Error(), "order_id") {
		t.Fatalf("error does not name the colliding identifier: %v", err)
	}
}

func TestSanitizeColumns_RejectsEmptyIdentifier(t *testing.T) {
	t.Parallel()

	ds, err := New([]string{"###"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ds.SanitizeColumns(); err == nil {
		t.Fatalf("expected empty-identifier error")
	}
}
