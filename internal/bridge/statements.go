package bridge

import (
	"context"
	"database/sql"
	"fmt"
)

// prepared returns a cached prepared statement for the query, preparing
// and caching it on first use. Statements live until Close finalizes
// them; the cache has no eviction.
func (d *Database) prepared(ctx context.Context, query string) (*sql.Stmt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destroyed {
		return nil, ErrDatabaseClosed
	}

	if stmt, ok := d.statements[query]; ok {
		return stmt, nil
	}

	stmt, err := d.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	d.statements[query] = stmt
	return stmt, nil
}

// Exec executes a single statement through the prepared-statement cache.
//
// Multi-statement batches (schema scripts, migrations) cannot go through
// prepared statements; use ExecScript for those.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - query: SQL with ? placeholders
//   - args: Arguments for placeholders
//
// Returns:
//   - sql.Result: Contains LastInsertId and RowsAffected
//   - error: If preparation or execution fails
func (d *Database) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmt, err := d.prepared(ctx, query)
	if err != nil {
		return nil, err
	}
	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("executing statement: %w", err)
	}
	return result, nil
}

// Query executes a single query through the prepared-statement cache.
// The caller owns the returned rows and must close them.
func (d *Database) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	stmt, err := d.prepared(ctx, query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return rows, nil
}

// QueryRow executes a single-row query through the prepared-statement
// cache. Preparation errors are deferred to Scan, matching the
// database/sql convention.
func (d *Database) QueryRow(ctx context.Context, query string, args ...any) *row {
	stmt, err := d.prepared(ctx, query)
	if err != nil {
		return &row{err: err}
	}
	return &row{row: stmt.QueryRowContext(ctx, args...)}
}

// ExecScript executes a multi-statement SQL batch outside the statement
// cache. Statements run sequentially on the connection; execution stops
// at the first failure.
func (d *Database) ExecScript(ctx context.Context, script string) error {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrDatabaseClosed
	}
	d.mu.Unlock()

	if _, err := d.db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("executing script: %w", err)
	}
	return nil
}

// StatementCount returns the number of cached prepared statements.
// Useful for monitoring and tests.
func (d *Database) StatementCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.statements)
}

// row defers statement-cache errors to Scan, mirroring *sql.Row.
type row struct {
	row *sql.Row
	err error
}

// Scan copies the row's columns into dest, or returns the deferred
// preparation error.
func (r *row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return r.row.Scan(dest...)
}
