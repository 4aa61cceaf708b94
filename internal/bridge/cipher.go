//go:build sqlcipher

// SQLCipher support. Build with:
//
//	CGO_ENABLED=1 go build -tags "sqlcipher libsqlite3" \
//	    -ldflags "-extldflags -lsqlcipher"
//
// The linked SQLite must be an SQLCipher build; the pragmas below are
// no-ops on a stock library and the database would be written in clear.
package bridge

import (
	"fmt"
	"strings"
)

// cipherAvailable reports whether encryption pragmas can be applied.
const cipherAvailable = true

// cipherStatements returns the SQLCipher key and compatibility pragmas.
// These must run before any other statement on the connection.
//
// The cipher parameters (page size 4096, 64000 KDF iterations, HMAC on,
// compatibility level 4) are fixed: changing them would make existing
// databases unreadable.
func cipherStatements(passphrase string) []string {
	// Pragmas cannot be parameterized; escape embedded quotes instead.
	key := strings.ReplaceAll(passphrase, "'", "''")
	return []string{
		fmt.Sprintf("PRAGMA key = '%s'", key),
		"PRAGMA cipher_page_size = 4096",
		"PRAGMA kdf_iter = 64000",
		"PRAGMA cipher_memory_security = ON",
		"PRAGMA cipher_default_use_hmac = ON",
		"PRAGMA cipher_compatibility = 4",
	}
}
