package sqlite

import (
	"strings"
	"testing"

	"tabload/internal/infer"
	"tabload/internal/storage"
)

func testDesc() storage.TableDescriptor {
	return storage.TableDescriptor{
		Schema: "public",
		Table:  "orders",
		Columns: []infer.ColumnType{
			{Name: "order_id", Tag: infer.TypeInteger},
			{Name: "amount", Tag: infer.TypeFloat},
			{Name: "placed_at", Tag: infer.TypeTimestamp},
			{Name: "note", Tag: infer.TypeText},
		},
	}
}

func TestBuildCreateSQL(t *testing.T) {
	t.Parallel()

	sql, err := buildCreateSQL(testDesc())
	if err != nil {
		t.Fatalf("buildCreateSQL: %v", err)
	}

	want := `CREATE TABLE "orders" (idpk INTEGER PRIMARY KEY AUTOINCREMENT, ` +
		`"order_id" INTEGER, "amount" REAL, "placed_at" TEXT, "note" TEXT)`
	if sql != want {
		t.Fatalf("DDL mismatch:\n got %q\nwant %q", sql, want)
	}
}

func TestBuildInsertSQL_QuestionPlaceholders(t *testing.T) {
	t.Parallel()

	sql, args, err := buildInsertSQL(testDesc(), [][]any{
		{"1", "9.5", "2024-01-01", nil},
		{"2", "3.5", "2024-01-02", "x"},
	})
	if err != nil {
		t.Fatalf("buildInsertSQL: %v", err)
	}
	if !strings.Contains(sql, "(?, ?, ?, ?), (?, ?, ?, ?)") {
		t.Fatalf("unexpected placeholders: %q", sql)
	}
	if len(args) != 8 || args[3] != nil {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildInsertSQL_RowWidthMismatchIsError(t *testing.T) {
	t.Parallel()

	if _, _, err := buildInsertSQL(testDesc(), [][]any{{"1"}}); err == nil {
		t.Fatalf("expected error for short row")
	}
}
