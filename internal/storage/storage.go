// Package storage defines the backend-agnostic repository contract for table
// lifecycle DDL and row loading, plus the registry that backend packages
// attach themselves to from init().
package storage

import (
	"context"
	"fmt"
	"sync"

	"tabload/internal/infer"
)

// Config is what a backend factory needs to reach its engine. Host/Port/
// User/Password come from the environment; Database is the target database
// name (a file path for sqlite). Opening a repository includes the
// idempotent database-level probe-then-create where the engine supports it.
type Config struct {
	Kind     string
	Host     string
	Port     string
	User     string
	Password string
	Database string

	// ShowSQL makes the backend log every statement before executing it.
	ShowSQL bool
}

// TableDescriptor names the target table and carries the resolved column
// types in dataset order.
//
// Existed is filled exactly once, from a single existence probe at the start
// of reconciliation, and governs every subsequent DDL decision in the run.
// It must not be refreshed mid-run; the stale-read risk is accepted.
type TableDescriptor struct {
	Schema  string
	Table   string
	Columns []infer.ColumnType
	Existed bool
}

// Repository is the minimal surface the lifecycle reconciler and loader
// need. Each backend implements these semantics in its own dialect.
//
// Every created table carries one implicit auto-incrementing primary key
// column ("idpk") ahead of the inferred columns.
type Repository interface {
	// Close releases connections. Call once at the end of the run, on every
	// exit path.
	Close()

	// EnsureSchema probes for the schema and creates it when absent.
	// Idempotent. Backends without schema support treat this as a no-op.
	EnsureSchema(ctx context.Context, schema string) error

	// TableExists reports whether the table is present. The reconciler calls
	// this exactly once per run.
	TableExists(ctx context.Context, schema, table string) (bool, error)

	// CreateTable creates the table from the descriptor's column types.
	CreateTable(ctx context.Context, desc TableDescriptor) error

	// DropTable removes the table. The table must exist.
	DropTable(ctx context.Context, schema, table string) error

	// DeleteRows removes all rows, leaving the definition untouched.
	DeleteRows(ctx context.Context, schema, table string) (int64, error)

	// InsertRows issues one parameterized INSERT for the given rows, whose
	// values are already null-normalized and aligned with desc.Columns.
	InsertRows(ctx context.Context, desc TableDescriptor, rows [][]any) (int64, error)
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]factory{}
)

// Register installs a backend factory under a kind. Backend packages call
// this from init(); registering the same kind twice panics so ambiguous
// backend selection fails at startup, not at load time.
func Register(kind string, f factory) {
	if kind == "" {
		panic("storage: Register with empty kind")
	}
	if f == nil {
		panic("storage: Register with nil factory")
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("storage: Register called twice for %q", kind))
	}
	factories[kind] = f
}

// Open builds a repository for cfg.Kind. The factory is responsible for
// connecting and for the database-level ensure.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.Kind)
	}
	return f(ctx, cfg)
}
