// Package storage defines the persistence abstraction used by cypherconf:
// the "exists / read whole / write whole" capability a settings entry lives
// behind. The unit of storage is one named entry holding one encoded
// settings document; there is no partial read or write.
//
// Implementations MUST be byte-for-byte transparent: Read must return
// exactly the same []byte previously passed to Write for a name (no
// prepended/appended metadata, no re-encoding, no mutation).
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned (possibly wrapped) by Read when the named entry
// is absent. Callers normally probe with Exists first, but the two calls
// are not atomic, so Read can still miss.
var ErrNotExist = errors.New("storage: entry does not exist")

// Backend is a whole-entry byte store. Implementations must be safe for
// concurrent use.
type Backend interface {
	// Exists reports whether the named entry is present.
	Exists(ctx context.Context, name string) (bool, error)

	// Read returns the full contents of the named entry. A missing entry
	// is reported as an error wrapping ErrNotExist.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the named entry with data, creating it if absent.
	Write(ctx context.Context, name string, data []byte) error

	// Close releases resources.
	Close(ctx context.Context) error
}
