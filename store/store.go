// Package store defines the cache storage abstraction used by offcache.
//
// A Store is a collection of named generations; a Generation is a keyed set
// of immutable entry snapshots. Implementations MUST be byte-for-byte
// transparent: Match must return exactly the same []byte that was previously
// passed to Put for a key (no prepended/appended metadata, no re-encoding,
// no mutation). If a store performs internal transforms (e.g., compression),
// they MUST be fully reversed so that the bytes returned by Match are
// identical to the bytes provided to Put.
//
// Generations have no per-entry expiry: entries leave a store only when the
// whole generation is deleted. Backends that evict under memory pressure
// (BigCache, Ristretto) surface evicted entries as misses, never as
// different data.
package store

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a store after Close.
var ErrClosed = errors.New("store: closed")

// Store is a versioned collection of named generations.
// Must be safe for concurrent use.
type Store interface {
	// Open returns the generation with the given name, creating it if
	// absent. The returned handle stays usable after Delete; writes through
	// a deleted handle land in a detached generation that is invisible to
	// Open and Generations (accepted activation race, removed by the next
	// install cycle).
	Open(ctx context.Context, name string) (Generation, error)

	// Generations enumerates the names of all live generations, sorted.
	Generations(ctx context.Context) ([]string, error)

	// Delete removes a generation and all of its entries in full.
	// Deleting an absent generation is a no-op.
	Delete(ctx context.Context, name string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Generation is a keyed set of entry bytes inside a Store.
// Must be safe for concurrent use. Concurrent Puts to the same key are
// last-write-wins; there is no per-key locking and none is needed because
// values are immutable snapshots.
type Generation interface {
	// Name returns the generation's name.
	Name() string

	// Match returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	// Callers must not mutate the returned bytes.
	Match(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Keys enumerates the keys present in the generation, sorted.
	Keys(ctx context.Context) ([]string, error)
}
