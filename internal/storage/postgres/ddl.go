package postgres

import (
	"fmt"
	"strings"

	"tabload/internal/infer"
	"tabload/internal/storage"
)

// pkColumn is the implicit surrogate key every created table starts with.
const pkColumn = `idpk SERIAL PRIMARY KEY`

// pgIdent double-quotes an identifier, doubling embedded quotes.
func pgIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// typeFor maps a resolved type tag to the Postgres column type. The tags
// happen to be valid Postgres type names already; the switch exists so an
// unknown tag fails loudly instead of leaking into DDL.
func typeFor(tag infer.TypeTag) (string, error) {
	switch tag {
	case infer.TypeText:
		return "TEXT", nil
	case infer.TypeInteger:
		return "INTEGER", nil
	case infer.TypeFloat:
		return "FLOAT", nil
	case infer.TypeTimestamp:
		return "TIMESTAMP", nil
	}
	return "", fmt.Errorf("postgres: unknown column type %q", tag)
}

// buildCreateSQL renders the CREATE TABLE statement for a descriptor.
//
// It is pure so column ordering, quoting, and the implicit primary key can
// be unit tested without a database.
func buildCreateSQL(desc storage.TableDescriptor) (string, error) {
	if len(desc.Columns) == 0 {
		return "", fmt.Errorf("postgres: create table %s.%s: no columns", desc.Schema, desc.Table)
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(pgIdent(desc.Schema))
	b.WriteString(".")
	b.WriteString(pgIdent(desc.Table))
	b.WriteString(" (")
	b.WriteString(pkColumn)

	for _, c := range desc.Columns {
		typ, err := typeFor(c.Tag)
		if err != nil {
			return "", err
		}
		b.WriteString(", ")
		b.WriteString(pgIdent(c.Name))
		b.WriteString(" ")
		b.WriteString(typ)
	}
	b.WriteString(")")
	return b.String(), nil
}

// buildInsertSQL constructs a single multi-row INSERT and its args.
//
// Placeholders are numbered $1..$n across the whole statement. Every row
// must have exactly one value per descriptor column.
func buildInsertSQL(desc storage.TableDescriptor, rows [][]any) (string, []any, error) {
	cols := desc.Columns
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("postgres: insert into %s.%s: no columns", desc.Schema, desc.Table)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(pgIdent(desc.Schema))
	b.WriteString(".")
	b.WriteString(pgIdent(desc.Table))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgIdent(c.Name))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(cols))
	p := 1
	for i, row := range rows {
		if len(row) != len(cols) {
			return "", nil, fmt.Errorf(
				"postgres: insert into %s.%s: row %d has %d values, want %d",
				desc.Schema, desc.Table, i, len(row), len(cols))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range cols {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", p)
			args = append(args, row[j])
			p++
		}
		b.WriteString(")")
	}
	return b.String(), args, nil
}
