// Package localstore provides the local persistent key-value store the
// ledger mirrors itself into: string keys, JSON blob values, no transactional
// guarantees across keys.
package localstore

import "context"

// Store is the narrow contract the ledger consumes. Implementations must
// treat writes as at-least-once durable; the in-memory ledger remains the
// source of truth while the process is live.
type Store interface {
	// Get returns the value for key. The second return is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// RemoveMany deletes the given keys. Missing keys are not an error.
	RemoveMany(ctx context.Context, keys ...string) error
}
