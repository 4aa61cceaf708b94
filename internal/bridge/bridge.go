package bridge

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Database configuration constants.
const (
	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the database file.
	filePermissions = 0600

	// openTimeout is the timeout for verifying database connectivity.
	openTimeout = 5 * time.Second

	// defaultBusyTimeout is how long the engine waits on a lock held by
	// another connection before failing with SQLITE_BUSY.
	defaultBusyTimeout = 5000 * time.Millisecond

	// memoryPath is the special SQLite path for an in-memory database.
	memoryPath = ":memory:"
)

// driverSeq generates unique driver registration names. Each Database
// registers its own sqlite3 driver so the connect hook can carry
// per-instance options (passphrase, locking mode).
var driverSeq atomic.Uint64

// Options contains the construction parameters for a Database.
type Options struct {
	// Path is the filesystem path to the SQLite database file, or
	// ":memory:" for a throwaway in-memory database.
	// The parent directory will be created if it doesn't exist.
	Path string

	// Passphrase enables SQLCipher encryption when non-empty.
	// Requires a binary built with the sqlcipher tag; supplying a
	// passphrase to a build without it is a construction error.
	Passphrase string

	// ExclusiveLocking switches the connection to EXCLUSIVE locking mode
	// for single-owner performance. Other processes will be unable to
	// open the file while the handle is alive.
	ExclusiveLocking bool

	// TempStoreInMemory forces temporary tables and indices into memory.
	// Intended for memory-constrained hosts with slow storage.
	TempStoreInMemory bool

	// FullSynchronous forces full fsync-on-commit durability
	// (PRAGMA synchronous = FULL) instead of the WAL default.
	FullSynchronous bool

	// BusyTimeout overrides the default 5s lock wait. Zero means default.
	BusyTimeout time.Duration
}

// Database owns one pragma-configured SQLite connection, a cache of
// prepared statements keyed by source text, and a record-presence set.
//
// Thread Safety:
//   - Close, UnsafeResetDatabase and Migrate hold one mutex for their
//     full duration and therefore serialize against each other.
//   - The record-presence cache has its own lock and may be used
//     concurrently with queries.
type Database struct {
	db   *sql.DB
	path string

	// mu guards the statement cache, the destroyed flag, and serializes
	// the mutating lifecycle operations (Close, reset, migrate).
	mu         sync.Mutex
	statements map[string]*sql.Stmt
	destroyed  bool

	// cachedRecords tracks which logical records the consumer side has
	// already materialized. Existence-only, never persisted.
	recordMu      sync.RWMutex
	cachedRecords map[string]struct{}
}

// Open creates a new Database with the specified options.
//
// It performs the following setup:
//  1. Builds the ordered init-statement batch (encryption pragmas first,
//     then temp_store, WAL journaling, busy_timeout, synchronous mode,
//     and locking mode — in that fixed order)
//  2. Registers a driver whose connect hook applies the batch to every
//     new connection, so pragma state is a per-connection invariant
//  3. Creates the database directory if it doesn't exist
//  4. Opens the file pinned to a single persistent connection
//  5. Verifies the connection with a ping
//  6. Sets file permissions (0600)
//
// Parameters:
//   - opts: Construction options
//
// Returns:
//   - *Database: Open handle ready for use
//   - error: If connection or configuration fails (fatal, no retry)
func Open(opts Options) (*Database, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("bridge: database path is required")
	}

	stmts, err := initStatements(opts)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists (not applicable to in-memory databases)
	if opts.Path != memoryPath {
		dir := filepath.Dir(opts.Path)
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Register a uniquely named driver carrying this instance's init
	// batch. sql.Register panics on duplicate names, hence the sequence.
	driverName := fmt.Sprintf("sqlite3_bridge_%d", driverSeq.Add(1))
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, stmt := range stmts {
				if _, err := conn.Exec(stmt, nil); err != nil {
					return fmt.Errorf("configuring connection (%s): %w", stmt, err)
				}
			}
			return nil
		},
	})

	sqlDB, err := sql.Open(driverName, opts.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection per instance. The keyed, pragma-configured
	// connection must not be recycled underneath cached statements, and
	// EXCLUSIVE locking mode only makes sense on a persistent handle.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	// Verify connection; this also forces the connect hook to run so
	// configuration failures surface here rather than on first query.
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Owner read/write only
	if opts.Path != memoryPath {
		_ = os.Chmod(opts.Path, filePermissions) //nolint:errcheck // Intentional: first run creates file later
	}

	d := &Database{
		db:            sqlDB,
		path:          opts.Path,
		statements:    make(map[string]*sql.Stmt),
		cachedRecords: make(map[string]struct{}),
	}

	// Teardown must run even if the owner never calls Close explicitly.
	runtime.SetFinalizer(d, (*Database).finalize)

	return d, nil
}

// initStatements builds the connection setup batch in its fixed order.
//
// Encryption pragmas must precede all other configuration or the
// connection is unusable; the remaining statements follow in the order
// described on Open.
func initStatements(opts Options) ([]string, error) {
	var stmts []string

	if opts.Passphrase != "" {
		if !cipherAvailable {
			return nil, ErrCipherUnavailable
		}
		stmts = append(stmts, cipherStatements(opts.Passphrase)...)
	}

	if opts.TempStoreInMemory {
		stmts = append(stmts, "PRAGMA temp_store = MEMORY")
	}

	stmts = append(stmts, "PRAGMA journal_mode = WAL")

	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	stmts = append(stmts, fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()))

	if opts.FullSynchronous {
		stmts = append(stmts, "PRAGMA synchronous = FULL")
	}

	if opts.ExclusiveLocking {
		stmts = append(stmts, "PRAGMA locking_mode = EXCLUSIVE")
	}

	return stmts, nil
}

// Close tears down the handle: every cached prepared statement is
// finalized, the cache is cleared, and the underlying connection closed.
//
// Close is idempotent; second and later calls return nil and do nothing.
// It also runs automatically via finalizer if the owner drops the handle
// without calling it.
//
// Returns:
//   - error: If closing the underlying connection fails
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destroyed {
		return nil
	}
	d.destroyed = true
	runtime.SetFinalizer(d, nil)

	for _, stmt := range d.statements {
		_ = stmt.Close() //nolint:errcheck // Best effort statement finalization
	}
	d.statements = make(map[string]*sql.Stmt)

	if err := d.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// finalize is the runtime finalizer target.
func (d *Database) finalize() {
	_ = d.Close() //nolint:errcheck // Nothing to report an error to
}

// Path returns the filesystem path to the database file.
func (d *Database) Path() string {
	return d.path
}

// HealthCheck verifies the database is accessible and functioning.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (d *Database) HealthCheck(ctx context.Context) error {
	var result int
	if err := d.QueryRow(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
