package mssql

import (
	"strings"
	"testing"

	"tabload/internal/infer"
	"tabload/internal/storage"
)

func testDesc() storage.TableDescriptor {
	return storage.TableDescriptor{
		Schema: "dbo",
		Table:  "orders",
		Columns: []infer.ColumnType{
			{Name: "order_id", Tag: infer.TypeInteger},
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

	want := `CREATE TABLE [dbo].[orders] ([idpk] INT IDENTITY(1,1) PRIMARY KEY, ` +
		`[order_id] BIGINT, [note] NVARCHAR(MAX))`
	if sql != want {
		t.Fatalf("DDL mismatch:\n got %q\nwant %q", sql, want)
	}
}

func TestTypeFor_AllTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tag  infer.TypeTag
		want string
	}{
		{infer.TypeText, "NVARCHAR(MAX)"},
		{infer.TypeInteger, "BIGINT"},
		{infer.TypeFloat, "FLOAT"},
		{infer.TypeTimestamp, "DATETIME2"},
	}
	for _, tc := range cases {
		got, err := typeFor(tc.tag)
		if err != nil {
			t.Fatalf("typeFor(%v): %v", tc.tag, err)
		}
		if got != tc.want {
			t.Fatalf("typeFor(%v) = %q, want %q", tc.tag, got, tc.want)
		}
	}
	if _, err := typeFor("BLOB"); err == nil {
		t.Fatalf("expected error for unknown tag")
	}
}

func TestBuildInsertSQL_NamedPlaceholders(t *testing.T) {
	t.Parallel()

	sql, args, err := buildInsertSQL(testDesc(), [][]any{
		{"1", "a"},
		{"2", nil},
	})
	if err != nil {
		t.Fatalf("buildInsertSQL: %v", err)
	}
	if !strings.Contains(sql, "(@p1, @p2), (@p3, @p4)") {
		t.Fatalf("placeholders not numbered across rows: %q", sql)
	}
	if len(args) != 4 || args[3] != nil {
		t.Fatalf("args = %v", args)
	}
}

func TestMsIdent_BracketsAndEscapes(t *testing.T) {
	t.Parallel()

	if got := msIdent("plain"); got != "[plain]" {
		t.Fatalf("msIdent(plain) = %q", got)
	}
	if got := msIdent("we]ird"); got != "[we]]ird]" {
		t.Fatalf("msIdent escape = %q", got)
	}
}
