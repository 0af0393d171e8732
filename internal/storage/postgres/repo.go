// Package postgres implements the storage.Repository contract on top of a
// pgx connection pool.
//
// Opening a repository is responsible for the database-level ensure: it
// connects to the maintenance database first, probes pg_database, creates
// the target database when absent, then reconnects to the target. CREATE
// DATABASE cannot run inside a transaction, so the probe-then-create pair
// is not atomic; a concurrent creator loses harmlessly because the create
// error is tolerated when a re-probe finds the database.
package postgres

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tabload/internal/storage"
)

func init() {
	storage.Register("postgres", New)
}

// maintenanceDB is the database used for the CREATE DATABASE bootstrap
// connection. Every Postgres cluster has it.
const maintenanceDB = "postgres"

// Repo implements storage.Repository for Postgres.
type Repo struct {
	pool    *pgxpool.Pool
	showSQL bool
}

// New connects to cfg.Database, creating it first when it does not exist.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	if err := ensureDatabase(ctx, cfg); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn(cfg, cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("postgres: connect to %q: %w", cfg.Database, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping %q: %w", cfg.Database, err)
	}
	return &Repo{pool: pool, showSQL: cfg.ShowSQL}, nil
}

// adminConn is the slice of pgxpool.Pool the database ensure needs, split
// out so the probe-create-reprobe sequence is testable without a server.
type adminConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ensureDatabase probes pg_database through a short-lived maintenance
// connection and creates the target database when the probe comes back
// empty.
func ensureDatabase(ctx context.Context, cfg storage.Config) error {
	admin, err := pgxpool.New(ctx, dsn(cfg, maintenanceDB))
	if err != nil {
		return fmt.Errorf("postgres: connect to maintenance database: %w", err)
	}
	defer admin.Close()

	return ensureDatabaseOn(ctx, admin, cfg)
}

func ensureDatabaseOn(ctx context.Context, admin adminConn, cfg storage.Config) error {
	exists, err := databaseExists(ctx, admin, cfg.Database)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// Identifiers cannot be bound as parameters; the quoted form defends
	// against names with exotic characters, not against hostile input.
	stmt := fmt.Sprintf(`CREATE DATABASE %s`, pgIdent(cfg.Database))
	if cfg.ShowSQL {
		log.Printf("postgres: %s", stmt)
	}
	if _, createErr := admin.Exec(ctx, stmt); createErr != nil {
		// A concurrent creator may have won the race between the probe and
		// the create. Re-probe; an existing database is success.
		exists, probeErr := databaseExists(ctx, admin, cfg.Database)
		if probeErr == nil && exists {
			return nil
		}
		return fmt.Errorf("postgres: create database %q: %w", cfg.Database, createErr)
	}
	return nil
}

func databaseExists(ctx context.Context, admin adminConn, name string) (bool, error) {
	var exists bool
	err := admin.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: probe database %q: %w", name, err)
	}
	return exists, nil
}

func dsn(cfg storage.Config, database string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   "/" + database,
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}

// Close closes the connection pool.
func (r *Repo) Close() {
	r.pool.Close()
}

// EnsureSchema creates the schema when information_schema.schemata has no
// row for it. Idempotent.
func (r *Repo) EnsureSchema(ctx context.Context, schema string) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`,
		schema,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("postgres: probe schema %q: %w", schema, err)
	}
	if exists {
		return nil
	}

	stmt := fmt.Sprintf(`CREATE SCHEMA %s`, pgIdent(schema))
	if r.showSQL {
		log.Printf("postgres: %s", stmt)
	}
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("postgres: create schema %q: %w", schema, err)
	}
	return nil
}

// TableExists probes information_schema.tables for the schema-qualified
// table.
func (r *Repo) TableExists(ctx context.Context, schema, table string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)`,
		schema, table,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: probe table %s.%s: %w", schema, table, err)
	}
	return exists, nil
}

// CreateTable creates the table with the implicit idpk column ahead of the
// inferred columns.
func (r *Repo) CreateTable(ctx context.Context, desc storage.TableDescriptor) error {
	stmt, err := buildCreateSQL(desc)
	if err != nil {
		return err
	}
	if r.showSQL {
		log.Printf("postgres: %s", stmt)
	}
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("postgres: create table %s.%s: %w", desc.Schema, desc.Table, err)
	}
	return nil
}

// DropTable removes the table.
func (r *Repo) DropTable(ctx context.Context, schema, table string) error {
	stmt := fmt.Sprintf(`DROP TABLE %s.%s`, pgIdent(schema), pgIdent(table))
	if r.showSQL {
		log.Printf("postgres: %s", stmt)
	}
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("postgres: drop table %s.%s: %w", schema, table, err)
	}
	return nil
}

// DeleteRows removes all rows and reports how many were deleted.
func (r *Repo) DeleteRows(ctx context.Context, schema, table string) (int64, error) {
	stmt := fmt.Sprintf(`DELETE FROM %s.%s`, pgIdent(schema), pgIdent(table))
	if r.showSQL {
		log.Printf("postgres: %s", stmt)
	}
	cmd, err := r.pool.Exec(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete rows from %s.%s: %w", schema, table, err)
	}
	return cmd.RowsAffected(), nil
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
		log.Printf("postgres: %s", stmt)
	}
	cmd, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: insert into %s.%s: %w", desc.Schema, desc.Table, err)
	}
	return cmd.RowsAffected(), nil
}
