package engine

import (
	"context"
	"fmt"

	"tabload/internal/config"
	"tabload/internal/storage"
)

// Reconcile brings the target table into the state the mode asks for and
// records the outcome of the existence probe in desc.Existed.
//
// The table's existence is probed exactly once, before any DDL. Every
// branch below trusts that answer; a table created or dropped concurrently
// between the probe and the DDL surfaces as a backend error.
//
// Mode semantics against an existing table:
//   - delete:  drop it, then create fresh from the inferred columns
//   - replace: keep the definition, remove all rows
//   - update:  keep definition and rows, just append
//
// Against an absent table all three modes create it.
func Reconcile(ctx context.Context, repo storage.Repository, desc *storage.TableDescriptor, mode config.Mode) error {
	if err := repo.EnsureSchema(ctx, desc.Schema); err != nil {
		return err
	}

	existed, err := repo.TableExists(ctx, desc.Schema, desc.Table)
	if err != nil {
		return err
	}
	desc.Existed = existed

	switch mode {
	case config.ModeDelete:
		if existed {
			if err := repo.DropTable(ctx, desc.Schema, desc.Table); err != nil {
				return err
			}
		}
		return repo.CreateTable(ctx, *desc)

	case config.ModeReplace:
		if !existed {
			return repo.CreateTable(ctx, *desc)
		}
		_, err := repo.DeleteRows(ctx, desc.Schema, desc.Table)
		return err

	case config.ModeUpdate:
		if existed {
			return nil
		}
		return repo.CreateTable(ctx, *desc)
	}
	return fmt.Errorf("engine: unknown mode %q", mode)
}
