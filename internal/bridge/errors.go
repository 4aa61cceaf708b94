package bridge

import "errors"

// Sentinel errors for bridge operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDatabaseClosed is returned when an operation is attempted on a
	// handle that has already been closed.
	ErrDatabaseClosed = errors.New("bridge: database is closed")

	// ErrCipherUnavailable is returned when a passphrase is supplied but
	// the binary was built without SQLCipher support (sqlcipher build tag).
	ErrCipherUnavailable = errors.New("bridge: encryption requested but binary built without sqlcipher support")

	// ErrMigrationVersionMismatch indicates the stored schema version does
	// not match the migration's expected starting version. This is a
	// migration-set mismatch (a programming error), not a recoverable
	// runtime condition.
	ErrMigrationVersionMismatch = errors.New("bridge: incompatible migration set")
)
