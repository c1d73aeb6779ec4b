// Package kv provides the flat key-value persistence medium the tracker
// stores all state in. Callers above this package never touch the medium
// directly; they go through the date-keyed store, which owns the key scheme.
package kv

import "context"

// Store is a flat string-to-string key-value medium with prefix enumeration.
// Implementations must be safe for use from a single goroutine at a time;
// there is no cross-process locking.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, replacing any prior value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys enumerates every stored key starting with prefix, sorted ascending.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases any underlying resources.
	Close() error
}
