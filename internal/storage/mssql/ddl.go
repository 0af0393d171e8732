package mssql

import (
	"fmt"
	"strings"

	"tabload/internal/infer"
	"tabload/internal/storage"
)

const pkColumn = `[idpk] INT IDENTITY(1,1) PRIMARY KEY`

// msIdent bracket-quotes an identifier, doubling embedded closing brackets.
func msIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// escapeSingle doubles single quotes for embedding inside an EXEC('...')
// batch.
func escapeSingle(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// typeFor maps a resolved type tag to the SQL Server column type.
// NVARCHAR(MAX) rather than TEXT because TEXT is deprecated, and BIGINT so
// large integer-looking inputs never overflow the column.
func typeFor(tag infer.TypeTag) (string, error) {
	switch tag {
	case infer.TypeText:
		return "NVARCHAR(MAX)", nil
	case infer.TypeInteger:
		return "BIGINT", nil
	case infer.TypeFloat:
		return "FLOAT", nil
	case infer.TypeTimestamp:
		return "DATETIME2", nil
	}
	return "", fmt.Errorf("mssql: unknown column type %q", tag)
}

func buildCreateSQL(desc storage.TableDescriptor) (string, error) {
	if len(desc.Columns) == 0 {
		return "", fmt.Errorf("mssql: create table %s.%s: no columns", desc.Schema, desc.Table)
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(msIdent(desc.Schema))
	b.WriteString(".")
	b.WriteString(msIdent(desc.Table))
	b.WriteString(" (")
	b.WriteString(pkColumn)
	for _, c := range desc.Columns {
		typ, err := typeFor(c.Tag)
		if err != nil {
			return "", err
		}
		b.WriteString(", ")
		b.WriteString(msIdent(c.Name))
		b.WriteString(" ")
		b.WriteString(typ)
	}
	b.WriteString(")")
	return b.String(), nil
}

// buildInsertSQL constructs a single multi-row INSERT using @p1..@pn
// placeholders numbered across the whole statement.
func buildInsertSQL(desc storage.TableDescriptor, rows [][]any) (string, []any, error) {
	cols := desc.Columns
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("mssql: insert into %s.%s: no columns", desc.Schema, desc.Table)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(msIdent(desc.Schema))
	b.WriteString(".")
	b.WriteString(msIdent(desc.Table))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(msIdent(c.Name))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(cols))
	p := 1
	for i, row := range rows {
		if len(row) != len(cols) {
			return "", nil, fmt.Errorf(
				"mssql: insert into %s.%s: row %d has %d values, want %d",
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
			fmt.Fprintf(&b, "@p%d", p)
			args = append(args, row[j])
			p++
		}
		b.WriteString(")")
	}
	return b.String(), args, nil
}
