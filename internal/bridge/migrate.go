package bridge

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies one migration step inside a single transaction.
//
// The stored schema version must equal fromVersion before the migration
// SQL runs; a mismatch means the caller is holding a migration set built
// for a different database state, which is a programming error surfaced
// as ErrMigrationVersionMismatch. On success the migration SQL has been
// applied and toVersion stamped atomically; on any failure the
// transaction is rolled back and the original error re-raised, leaving
// no partial migration state visible.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - migrationSQL: Batch migration script
//   - fromVersion: Expected current schema version
//   - toVersion: Version to stamp after applying the script
//
// Returns:
//   - error: ErrMigrationVersionMismatch, or the original failure from
//     the transactional block
func (d *Database) Migrate(ctx context.Context, migrationSQL string, fromVersion, toVersion int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destroyed {
		return ErrDatabaseClosed
	}

	return d.withTransaction(ctx, func(tx *sql.Tx) error {
		current, err := schemaVersionTx(ctx, tx)
		if err != nil {
			return err
		}
		if current != fromVersion {
			return fmt.Errorf("%w: database at version %d, migration expects %d",
				ErrMigrationVersionMismatch, current, fromVersion)
		}

		if _, err := tx.ExecContext(ctx, migrationSQL); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
		return setSchemaVersionTx(ctx, tx, toVersion)
	})
}
