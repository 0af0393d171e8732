// Package mssql implements the storage.Repository contract for Microsoft
// SQL Server via database/sql and the go-mssqldb driver.
//
// Like the Postgres backend, opening a repository bootstraps through the
// "master" database to probe sys.databases and create the target when
// absent, then reconnects with the target as the default database.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"

	_ "github.com/microsoft/go-mssqldb"

	"tabload/internal/storage"
)

func init() {
	storage.Register("mssql", New)
}

const maintenanceDB = "master"

// Repo implements storage.Repository for SQL Server.
type Repo struct {
	db      *sql.DB
	showSQL bool
}

// New connects to cfg.Database, creating it first when it does not exist.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	if err := ensureDatabase(ctx, cfg); err != nil {
		return nil, err
	}

	db, err := open(ctx, cfg, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &Repo{db: db, showSQL: cfg.ShowSQL}, nil
}

func open(ctx context.Context, cfg storage.Config, database string) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", dsn(cfg, database))
	if err != nil {
		return nil, fmt.Errorf("mssql: open %q: %w", database, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: ping %q: %w", database, err)
	}
	return db, nil
}

func ensureDatabase(ctx context.Context, cfg storage.Config) error {
	admin, err := open(ctx, cfg, maintenanceDB)
	if err != nil {
		return err
	}
	defer admin.Close()

	var n int
	err = admin.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sys.databases WHERE name = @p1`,
		cfg.Database,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("mssql: probe database %q: %w", cfg.Database, err)
	}
	if n > 0 {
		return nil
	}

	stmt := fmt.Sprintf(`CREATE DATABASE %s`, msIdent(cfg.Database))
	if cfg.ShowSQL {
		log.Printf("mssql: %s", stmt)
	}
	if _, err := admin.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mssql: create database %q: %w", cfg.Database, err)
	}
	return nil
}

func dsn(cfg storage.Config, database string) string {
	u := url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
	}
	q := url.Values{}
	q.Set("database", database)
	u.RawQuery = q.Encode()
	return u.String()
}

func (r *Repo) Close() { _ = r.db.Close() }

// EnsureSchema probes sys.schemas and creates the schema when absent.
// CREATE SCHEMA must be the only statement in its batch, hence the EXEC
// wrapper.
func (r *Repo) EnsureSchema(ctx context.Context, schema string) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sys.schemas WHERE name = @p1`,
		schema,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("mssql: probe schema %q: %w", schema, err)
	}
	if n > 0 {
		return nil
	}

	stmt := fmt.Sprintf(`EXEC('CREATE SCHEMA %s')`, escapeSingle(msIdent(schema)))
	if r.showSQL {
		log.Printf("mssql: %s", stmt)
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mssql: create schema %q: %w", schema, err)
	}
	return nil
}

// TableExists probes INFORMATION_SCHEMA.TABLES for the schema-qualified
// table.
func (r *Repo) TableExists(ctx context.Context, schema, table string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2`,
		schema, table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("mssql: probe table %s.%s: %w", schema, table, err)
	}
	return n > 0, nil
}

func (r *Repo) CreateTable(ctx context.Context, desc storage.TableDescriptor) error {
	stmt, err := buildCreateSQL(desc)
	if err != nil {
		return err
	}
	if r.showSQL {
		log.Printf("mssql: %s", stmt)
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mssql: create table %s.%s: %w", desc.Schema, desc.Table, err)
	}
	return nil
}

func (r *Repo) DropTable(ctx context.Context, schema, table string) error {
	stmt := fmt.Sprintf(`DROP TABLE %s.%s`, msIdent(schema), msIdent(table))
	if r.showSQL {
		log.Printf("mssql: %s", stmt)
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("mssql: drop table %s.%s: %w", schema, table, err)
	}
	return nil
}

func (r *Repo) DeleteRows(ctx context.Context, schema, table string) (int64, error) {
	stmt := fmt.Sprintf(`DELETE FROM %s.%s`, msIdent(schema), msIdent(table))
	if r.showSQL {
		log.Printf("mssql: %s", stmt)
	}
	res, err := r.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("mssql: delete rows from %s.%s: %w", schema, table, err)
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
		log.Printf("mssql: %s", stmt)
	}
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("mssql: insert into %s.%s: %w", desc.Schema, desc.Table, err)
	}
	return res.RowsAffected()
}
