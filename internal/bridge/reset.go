package bridge

import (
	"context"
	"database/sql"
	"fmt"
)

// UnsafeResetDatabase destructively wipes all data and schema, then
// recreates the schema from schemaSQL and stamps schemaVersion.
//
// The sequence is:
//  1. Enter reset mode (writable_schema on) and delete every object
//     from sqlite_master
//  2. Leave reset mode (writable_schema reset, reloading the now-empty
//     schema)
//  3. VACUUM to rebuild the file — the engine forbids vacuuming inside
//     a transaction, so this step runs outside one
//  4. In a single transaction: clear the record-presence cache, apply
//     schemaSQL, stamp the schema version; commit on success, roll back
//     and re-raise on any failure
//
// The schema wipe and vacuum in steps 1-3 are NOT covered by the
// transaction in step 4. If schema application fails the database is
// left empty at its previous version; callers must retry the reset.
// This matches the engine's constraints and is deliberate, not a bug.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - schemaSQL: Full schema script to apply to the emptied database
//   - schemaVersion: Version to stamp alongside the schema
//
// Returns:
//   - error: Reset-mode toggling failures, or the original error from
//     the transactional block
func (d *Database) UnsafeResetDatabase(ctx context.Context, schemaSQL string, schemaVersion int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destroyed {
		return ErrDatabaseClosed
	}

	if err := d.enterResetMode(ctx); err != nil {
		return err
	}
	if err := d.exitResetMode(ctx); err != nil {
		return err
	}

	// NOTE: We can't VACUUM in a transaction
	if _, err := d.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuuming database: %w", err)
	}

	return d.withTransaction(ctx, func(tx *sql.Tx) error {
		d.clearRecordCache()

		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
		return setSchemaVersionTx(ctx, tx, schemaVersion)
	})
}

// enterResetMode makes sqlite_master writable and deletes every schema
// object. SQLite's native reset facility (SQLITE_DBCONFIG_RESET_DATABASE)
// is not exposed through the driver; writable_schema is the documented
// equivalent for clearing a database in place.
func (d *Database) enterResetMode(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "PRAGMA writable_schema = ON"); err != nil {
		return fmt.Errorf("failed to enable reset database mode: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, "DELETE FROM sqlite_master"); err != nil {
		return fmt.Errorf("failed to enable reset database mode: %w", err)
	}
	return nil
}

// exitResetMode turns writable_schema back off and forces the connection
// to reload the (now empty) schema.
func (d *Database) exitResetMode(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "PRAGMA writable_schema = RESET"); err != nil {
		return fmt.Errorf("failed to disable reset database mode: %w", err)
	}
	return nil
}
