package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tabload/internal/config"
	"tabload/internal/engine"
	"tabload/internal/metrics"
	"tabload/internal/metrics/datadog"

	// register all storage backends with the factory.
	_ "tabload/internal/storage/all"
)

// main parses flags and the DB_* environment, then runs a single load.
// All failure paths return through run so deferred cleanup (the metrics
// backend's final flush in particular) completes before the process exits.
func main() {
	if err := run(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config

	flag.StringVar(&cfg.File, "f", "", "input file (.csv, .xlsx)")
	flag.StringVar(&cfg.File, "file", "", "input file (.csv, .xlsx)")
	flag.StringVar(&cfg.Schema, "s", config.DefaultSchema, "target schema")
	flag.StringVar(&cfg.Schema, "schema", config.DefaultSchema, "target schema")
	flag.StringVar(&cfg.Database, "d", config.DefaultDatabase, "target database")
	flag.StringVar(&cfg.Database, "database", config.DefaultDatabase, "target database")
	flag.StringVar(&cfg.Table, "t", "", "target table (default: derived from the file name)")
	flag.StringVar(&cfg.Table, "table", "", "target table (default: derived from the file name)")
	mode := flag.String("m", string(config.ModeUpdate), "load mode: delete, replace or update")
	modeLong := flag.String("mode", "", "load mode: delete, replace or update")
	flag.StringVar(&cfg.Backend, "backend", config.DefaultBackend, "storage backend: postgres, sqlite or mssql")
	flag.BoolVar(&cfg.ShowSQL, "show-sql", false, "log every SQL statement before executing it")
	flag.IntVar(&cfg.SampleCap, "sample-cap", config.DefaultSampleCap, "max values sampled per column for type resolution")
	flag.IntVar(&cfg.BatchSize, "batch-size", config.DefaultBatchSize, "rows per INSERT statement")
	flag.StringVar(&cfg.InputEncoding, "input-encoding", "", "CSV input encoding (utf-8, latin1, windows-1252)")
	metricsBackend := flag.String("metrics-backend", "", "metrics backend: datadog or none")
	flag.BoolVar(&cfg.Verbose, "v", false, "enable verbose logs")

	flag.Parse()

	if *modeLong != "" {
		mode = modeLong
	}
	m, err := config.ParseMode(*mode)
	if err != nil {
		return err
	}
	cfg.Mode = m

	if err := cfg.Validate(); err != nil {
		return err
	}

	env, err := config.EnvFromOS(cfg.Backend)
	if err != nil {
		return err
	}
	cfg.DB = env

	// Decide metrics backend: flag, then env, then none.
	backendName := *metricsBackend
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		extraTags := datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS"))

		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName: "tabload",
			Tags:    extraTags,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			if cfg.Verbose {
				log.Printf("metrics: backend=%v tags=%v", backendName, extraTags)
			}
			metrics.SetBackend(b)

			// Close stops the flush loop and submits the final payload.
			// Failed runs flush too; the error counters matter most then.
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	res, err := engine.NewDefault().Run(ctx, cfg)
	if err != nil {
		return err
	}

	log.Printf("loaded %d rows into %s.%s", res.Inserted, res.Schema, res.Table)
	if cfg.Verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	return nil
}
