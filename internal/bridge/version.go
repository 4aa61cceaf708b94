package bridge

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion reads the stored schema version from the engine's
// user_version metadata slot.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - int: The stored version (0 for a fresh database)
//   - error: If the read fails
func (d *Database) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := d.QueryRow(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// schemaVersionTx reads user_version inside a transaction.
func schemaVersionTx(ctx context.Context, tx *sql.Tx) (int, error) {
	var version int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// setSchemaVersionTx stamps user_version inside a transaction. Pragmas
// cannot be parameterized, but the value is an int so formatting is safe.
func setSchemaVersionTx(ctx context.Context, tx *sql.Tx, version int) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("stamping schema version: %w", err)
	}
	return nil
}
