// Package store defines the key-value persistence abstraction consumed by
// duocache.
//
// Implementations MUST be byte-for-byte transparent: Read must return exactly
// the same []byte that was previously passed to Write for a key (no
// prepended/appended metadata, no re-encoding, no mutation). If a store
// performs internal transforms (e.g., compression), they MUST be fully
// reversed so that the bytes returned by Read are identical to the bytes
// provided to Write.
//
// Important: for every value key the cache also owns the derived "<key>_policy"
// entry. External code MUST NOT write under keys carrying that suffix; foreign
// writes are treated as corruption by strict frame validation and deleted.
package store

import "context"

// Store is a minimal byte store. Must be safe for concurrent use.
type Store interface {
	// Read returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Read(ctx context.Context, key string) ([]byte, bool, error)

	// Write stores value under key, replacing any previous entry.
	Write(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
