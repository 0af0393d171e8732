// Package sqlite implements the storage.Repository contract on an embedded
// SQLite database via database/sql and the modernc.org driver.
//
// Differences from the server backends:
//   - Config.Database is a file path. A bare name gets a ".db" suffix so
//     the default database name produces "tabload.db" next to the process.
//   - There are no schemas; EnsureSchema is a no-op and table names are
//     used unqualified.
//   - SQLite is dynamically typed. The declared column types only set
//     affinity, which is close enough for TEXT/INTEGER/FLOAT; TIMESTAMP
//     values are stored as the text the input carried.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"

	_ "modernc.org/sqlite"

	"tabload/internal/storage"
)

func init() {
	storage.Register("sqlite", New)
}

// Repo implements storage.Repository for SQLite.
type Repo struct {
	db      *sql.DB
	showSQL bool
}

// New opens (and implicitly creates) the database file.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	path := databasePath(cfg.Database)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %q: %w", path, err)
	}
	return &Repo{db: db, showSQL: cfg.ShowSQL}, nil
}

// databasePath treats the configured database name as a file path, adding a
// ".db" suffix when the name has no extension. ":memory:" passes through
// untouched.
func databasePath(name string) string {
	if name == ":memory:" {
		return name
	}
	if filepath.Ext(name) == "" {
		return name + ".db"
	}
	return name
}

func (r *Repo) Close() { _ = r.db.Close() }

// EnsureSchema is a no-op: SQLite has no schema namespaces.
func (r *Repo) EnsureSchema(ctx context.Context, schema string) error {
	return nil
}

// TableExists probes sqlite_master for the table.
func (r *Repo) TableExists(ctx context.Context, schema, table string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: probe table %q: %w", table, err)
	}
	return n > 0, nil
}

// CreateTable creates the table with the implicit idpk column.
func (r *Repo) CreateTable(ctx context.Context, desc storage.TableDescriptor) error {
	stmt, err := buildCreateSQL(desc)
	if err != nil {
		return err
	}
	if r.showSQL {
		log.Printf("sqlite: %s", stmt)
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: create table %q: %w", desc.Table, err)
	}
	return nil
}

func (r *Repo) DropTable(ctx context.Context, schema, table string) error {
	stmt := fmt.Sprintf(`DROP TABLE %s`, sqlIdent(table))
	if r.showSQL {
		log.Printf("sqlite: %s", stmt)
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: drop table %q: %w", table, err)
	}
	return nil
}

func (r *Repo) DeleteRows(ctx context.Context, schema, table string) (int64, error) {
	stmt := fmt.Sprintf(`DELETE FROM %s`, sqlIdent(table))
	if r.showSQL {
		log.Printf("sqlite: %s", stmt)
	}
	res, err := r.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete rows from %q: %w", table, err)
	}
	return res.RowsAffected()
}

// InsertRows issues a single multi-row INSERT for the chunk.
func (r *Repo) InsertRows(ctx context.Context, desc storage.TableDescriptor, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt, args, err := buildInsertSQL(desc, rows)
	if err != nil {
		return 0, err
	}
	if r.showSQL {
		log.Printf("sqlite: %s", stmt)
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert into %q: %w", desc.Table, err)
	}
	return res.RowsAffected()
}
