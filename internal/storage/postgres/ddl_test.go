package postgres

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

	want := `CREATE TABLE "public"."orders" (idpk SERIAL PRIMARY KEY, ` +
		`"order_id" INTEGER, "amount" FLOAT, "placed_at" TIMESTAMP, "note" TEXT)`
	if sql != want {
		t.Fatalf("DDL mismatch:\n got %q\nwant %q", sql, want)
	}
}

func TestBuildCreateSQL_NoColumnsIsError(t *testing.T) {
	t.Parallel()

	desc := testDesc()
	desc.Columns = nil
	if _, err := buildCreateSQL(desc); err == nil {
		t.Fatalf("expected error for empty column list")
	}
}

func TestBuildCreateSQL_UnknownTagIsError(t *testing.T) {
	t.Parallel()

	desc := testDesc()
	desc.Columns[0].Tag = "UUID"
	if _, err := buildCreateSQL(desc); err == nil {
		t.Fatalf("expected error for unknown type tag")
	}
}

func TestBuildInsertSQL_PlaceholderNumbering(t *testing.T) {
	t.Parallel()

	desc := testDesc()
	rows := [][]any{
		{"1", "9.5", "2024-01-01", nil},
		{"2", nil, "2024-01-02", "x"},
	}

	sql, args, err := buildInsertSQL(desc, rows)
	if err != nil {
		t.Fatalf("buildInsertSQL: %v", err)
	}

	if !strings.HasPrefix(sql, `INSERT INTO "public"."orders" ("order_id", "amount", "placed_at", "note") VALUES `) {
		t.Fatalf("unexpected prefix: %q", sql)
	}
	if !strings.Contains(sql, "($1, $2, $3, $4), ($5, $6, $7, $8)") {
		t.Fatalf("placeholders not numbered across rows: %q", sql)
	}
	if len(args) != 8 {
		t.Fatalf("len(args) = %d, want 8", len(args))
	}
	if args[3] != nil || args[5] != nil {
		t.Fatalf("nil args not preserved: %v", args)
	}
	if args[4] != "2" {
		t.Fatalf("args[4] = %v, want %q", args[4], "2")
	}
}

func TestBuildInsertSQL_RowWidthMismatchIsError(t *testing.T) {
	t.Parallel()

	if _, _, err := buildInsertSQL(testDesc(), [][]any{{"1"}}); err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestPgIdent_QuotesAndEscapes(t *testing.T) {
	t.Parallel()

	if got := pgIdent("plain"); got != `"plain"` {
		t.Fatalf("pgIdent(plain) = %q", got)
	}
	if got := pgIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("pgIdent escape = %q", got)
	}
}
