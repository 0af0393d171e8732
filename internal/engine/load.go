package engine

import (
	"context"

	"tabload/internal/dataset"
	"tabload/internal/metrics"
	"tabload/internal/storage"
)

// Load inserts every dataset row into the target table in chunks of
// batchSize. Empty cells become SQL NULL; all other values are passed as
// the strings the file carried and converted by the database.
//
// Loading stops at the first failed chunk. Rows inserted before the
// failure stay in the table; the returned count says how many made it.
func Load(ctx context.Context, repo storage.Repository, desc storage.TableDescriptor, ds *dataset.Dataset, batchSize int) (int64, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	var total int64
	batch := make([][]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := repo.InsertRows(ctx, desc, batch)
		total += n
		batch = batch[:0]
		if err != nil {
			return err
		}
		metrics.IncCounter(metrics.BatchesTotal, 1, nil)
		return nil
	}

	for i := 0; i < ds.RowCount(); i++ {
		batch = append(batch, nullify(ds.Row(i)))
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// nullify converts a raw row into insert arguments, mapping empty strings
// to NULL.
func nullify(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if v == "" {
			out[i] = nil
		} else {
			out[i] = v
		}
	}
	return out
}
