// Package bridge provides the embedded SQLite layer for litebridge.
//
// This package manages:
//   - A single pragma-configured SQLite connection per Database handle
//   - Optional SQLCipher encryption (build with the sqlcipher tag)
//   - A prepared-statement cache keyed by SQL text
//   - A record-presence cache used to suppress duplicate materialization
//   - Transactional schema reset and versioned migrations
//
// The hard database engineering (query planning, WAL, B-trees, encryption)
// belongs to SQLite itself; this package only sequences configuration,
// guards the handle lifecycle, and translates engine errors.
//
// Concurrency Model:
//   - Close, UnsafeResetDatabase and Migrate serialize on one mutex for
//     their full duration.
//   - The connection itself tolerates cross-process contention via the
//     busy_timeout pragma; no retry logic exists beyond that.
//   - Operations are synchronous. A context cancellation mid-transaction
//     surfaces as an error and triggers rollback like any other failure.
//
// Usage:
//
//	db, err := bridge.Open(bridge.Options{Path: "data/app.db"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.UnsafeResetDatabase(ctx, schemaSQL, 1); err != nil {
//	    log.Fatal(err)
//	}
//
// Schema Versioning:
//
// The stored schema version lives in SQLite's user_version header slot and
// is only ever stamped inside the same transaction that applied the
// corresponding SQL, so the recorded version always matches the schema on
// disk.
package bridge
