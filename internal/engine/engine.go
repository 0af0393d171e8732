// Package engine orchestrates a load: parse the input file, sanitize the
// header, resolve column types, reconcile the target table with the
// requested mode, and insert the rows.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"tabload/internal/config"
	"tabload/internal/dataset"
	"tabload/internal/infer"
	"tabload/internal/metrics"
	"tabload/internal/parser"
	"tabload/internal/storage"
)

// Engine runs loads. OpenRepository is a factory seam so tests can drive
// the full pipeline against a fake repository.
type Engine struct {
	OpenRepository func(ctx context.Context, cfg storage.Config) (storage.Repository, error)
}

// NewDefault returns an Engine wired to the registered storage backends.
func NewDefault() *Engine {
	return &Engine{OpenRepository: storage.Open}
}

// Result summarizes a completed load.
type Result struct {
	Schema   string
	Table    string
	Columns  []infer.ColumnType
	Existed  bool
	Inserted int64
}

// Run executes one load end to end. The run is not atomic: a failure
// mid-load leaves previously inserted rows in place, and the error says
// how far it got.
func (e *Engine) Run(ctx context.Context, cfg config.Config) (res Result, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.IncCounter(metrics.RunsTotal, 1, metrics.Labels{"status": status})
		metrics.ObserveHistogram(metrics.RunDurationSeconds, time.Since(start).Seconds(),
			metrics.Labels{"status": status})
	}()

	ds, err := parser.ReadFile(cfg.File, cfg.InputEncoding)
	if err != nil {
		return Result{}, err
	}
	if err := ds.SanitizeColumns(); err != nil {
		return Result{}, err
	}

	desc := storage.TableDescriptor{
		Schema:  cfg.Schema,
		Table:   cfg.TableName(),
		Columns: resolveColumns(ds, cfg.SampleCap),
	}

	if cfg.Verbose {
		log.Printf("engine: %s: %d rows, %d columns", cfg.File, ds.RowCount(), ds.ColumnCount())
		for _, c := range desc.Columns {
			log.Printf("engine: column %s %s", c.Name, c.Tag)
		}
	}

	repo, err := e.OpenRepository(ctx, storage.Config{
		Kind:     cfg.Backend,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.Database,
		ShowSQL:  cfg.ShowSQL,
	})
	if err != nil {
		return Result{}, err
	}
	defer repo.Close()

	if err := Reconcile(ctx, repo, &desc, cfg.Mode); err != nil {
		return Result{}, err
	}

	inserted, err := Load(ctx, repo, desc, ds, cfg.BatchSize)
	if err != nil {
		return Result{}, fmt.Errorf("after %d rows: %w", inserted, err)
	}
	metrics.IncCounter(metrics.RowsTotal, float64(inserted), metrics.Labels{"table": desc.Table})

	return Result{
		Schema:   desc.Schema,
		Table:    desc.Table,
		Columns:  desc.Columns,
		Existed:  desc.Existed,
		Inserted: inserted,
	}, nil
}

// resolveColumns resolves one type per column from a bounded sample of its
// values.
func resolveColumns(ds *dataset.Dataset, sampleCap int) []infer.ColumnType {
	names := ds.ColumnNames()
	out := make([]infer.ColumnType, len(names))
	for i, name := range names {
		out[i] = infer.ColumnType{
			Name: name,
			Tag:  infer.Resolve(ds.Column(i), sampleCap),
		}
	}
	return out
}
