package sqlite

import (
	"fmt"
	"strings"

	"tabload/internal/infer"
	"tabload/internal/storage"
)

const pkColumn = `idpk INTEGER PRIMARY KEY AUTOINCREMENT`

// sqlIdent double-quotes an identifier, doubling embedded quotes.
func sqlIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// typeFor maps a resolved type tag to a declared SQLite type. REAL and
// TEXT set the affinity we want; TIMESTAMP has no native representation,
// so those columns get TEXT affinity and keep the input's spelling.
func typeFor(tag infer.TypeTag) (string, error) {
	switch tag {
	case infer.TypeText:
		return "TEXT", nil
	case infer.TypeInteger:
		return "INTEGER", nil
	case infer.TypeFloat:
		return "REAL", nil
	case infer.TypeTimestamp:
		return "TEXT", nil
	}
	return "", fmt.Errorf("sqlite: unknown column type %q", tag)
}

func buildCreateSQL(desc storage.TableDescriptor) (string, error) {
	if len(desc.Columns) == 0 {
		return "", fmt.Errorf("sqlite: create table %q: no columns", desc.Table)
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(sqlIdent(desc.Table))
	b.WriteString(" (")
	b.WriteString(pkColumn)
	for _, c := range desc.Columns {
		typ, err := typeFor(c.Tag)
		if err != nil {
			return "", err
		}
		b.WriteString(", ")
		b.WriteString(sqlIdent(c.Name))
		b.WriteString(" ")
		b.WriteString(typ)
	}
	b.WriteString(")")
	return b.String(), nil
}

// buildInsertSQL constructs a single multi-row INSERT using ? placeholders.
func buildInsertSQL(desc storage.TableDescriptor, rows [][]any) (string, []any, error) {
	cols := desc.Columns
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("sqlite: insert into %q: no columns", desc.Table)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(desc.Table))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c.Name))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(cols))
	for i, row := range rows {
		if len(row) != len(cols) {
			return "", nil, fmt.Errorf(
				"sqlite: insert into %q: row %d has %d values, want %d",
				desc.Table, i, len(row), len(cols))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range cols {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString("?")
			args = append(args, row[j])
		}
		b.WriteString(")")
	}
	return b.String(), args, nil
}
