package bridge

import (
	"context"
	"database/sql"
	"fmt"
)

// withTransaction runs fn inside a transaction: commit on success,
// rollback on failure. The rollback path forwards fn's error unchanged
// so the caller sees the true cause, never the rollback's.
func (d *Database) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback() //nolint:errcheck // The original failure is what matters
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
