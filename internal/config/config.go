// Package config assembles the immutable run configuration from CLI flags
// and environment variables. Every component receives this value explicitly;
// nothing reads flags or the environment after startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tabload/internal/dataset"
	"tabload/internal/infer"
)

// Mode is the run-level table lifecycle policy. It is selected once per run
// and never changes mid-run.
type Mode string

const (
	// ModeDelete drops an existing table and recreates it from the freshly
	// inferred column types.
	ModeDelete Mode = "delete"
	// ModeReplace keeps an existing table's definition and deletes its rows.
	ModeReplace Mode = "replace"
	// ModeUpdate appends to an existing table as-is.
	ModeUpdate Mode = "update"
)

// ParseMode validates a mode string from the CLI.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDelete:
		return ModeDelete, nil
	case ModeReplace:
		return ModeReplace, nil
	case ModeUpdate:
		return ModeUpdate, nil
	default:
		return "", fmt.Errorf("config: unknown mode %q (want delete, replace or update)", s)
	}
}

// DBEnv carries the connection credentials taken from the environment.
type DBEnv struct {
	Host     string
	Port     string
	User     string
	Password string
}

// Config is the complete, immutable configuration for one load run.
type Config struct {
	// File is the source file path (required).
	File string
	// Schema is the target schema (default "public").
	Schema string
	// Database is the target database name, or the database file path for
	// the sqlite backend.
	Database string
	// Table is the target table name; empty means "derive from File".
	Table string
	// Mode governs the DDL issued before loading.
	Mode Mode
	// Backend selects the storage backend: postgres (default), sqlite, mssql.
	Backend string
	// ShowSQL echoes every executed statement to the log.
	ShowSQL bool
	// SampleCap bounds the per-column inference sample.
	SampleCap int
	// BatchSize groups that many rows per INSERT. 1 preserves the row-at-a-
	// time baseline semantics.
	BatchSize int
	// InputEncoding names the CSV byte encoding (utf-8, latin1, windows-1252).
	InputEncoding string
	// Verbose enables progress logging.
	Verbose bool

	DB DBEnv
}

// Defaults as shipped; flags may override all of them.
const (
	DefaultSchema    = "public"
	DefaultDatabase  = "tabload"
	DefaultBackend   = "postgres"
	DefaultSampleCap = infer.DefaultSampleCap
	DefaultBatchSize = 1
)

// EnvFromOS reads DB_* variables. DB_USER and DB_PASSWORD are required for
// the server backends; their absence is a fatal startup error raised before
// any database interaction.
func EnvFromOS(backend string) (DBEnv, error) {
	env := DBEnv{
		Host:     envDefault("DB_HOST", "localhost"),
		Port:     envDefault("DB_PORT", "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
	}
	if backend == "sqlite" {
		// sqlite opens a local file; credentials do not apply.
		return env, nil
	}
	if env.User == "" || env.Password == "" {
		return DBEnv{}, fmt.Errorf("config: environment variables DB_USER and DB_PASSWORD must be set")
	}
	return env, nil
}

// Validate checks cross-field consistency after flag parsing.
func (c Config) Validate() error {
	if strings.TrimSpace(c.File) == "" {
		return fmt.Errorf("config: -file is required")
	}
	switch c.Backend {
	case "postgres", "sqlite", "mssql":
	default:
		return fmt.Errorf("config: unknown backend %q (want postgres, sqlite or mssql)", c.Backend)
	}
	if c.SampleCap <= 0 {
		return fmt.Errorf("config: sample cap must be positive, got %d", c.SampleCap)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}

// TableName returns the configured table name, falling back to the sanitized
// base name of the source file.
func (c Config) TableName() string {
	if c.Table != "" {
		return c.Table
	}
	base := filepath.Base(c.File)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return dataset.Sanitize(base)
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
