//go:build !sqlcipher

package bridge

// cipherAvailable reports whether encryption pragmas can be applied.
// Without the sqlcipher build tag, supplying a passphrase is an error
// at construction time (see Open).
const cipherAvailable = false

func cipherStatements(_ string) []string {
	return nil
}
