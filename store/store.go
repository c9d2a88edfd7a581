// Package store defines the storage abstraction behind omnicache drivers.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no prepended
// or appended metadata, no re-encoding, no mutation). If a store performs
// internal transforms (e.g. framing for TTL emulation), they MUST be fully
// reversed before returning.
//
// A zero-length value is a present entry. Stores must never translate an
// empty payload into a miss; hit/miss travels in the ok result only.
//
// The keyspace under a driver's namespace prefix is owned by omnicache.
// External code MUST NOT write values under it; foreign writes may be
// treated as corruption and deleted.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrRejected means the store refused a write under pressure (admission
// policy, memory limit). Distinct from an I/O error.
var ErrRejected = errors.New("store: write rejected under pressure")

// Entry is one member of a batched write.
type Entry struct {
	Key   string
	Value []byte
	Cost  int64
}

// Store is a byte store with TTLs and hash-scoped addressing.
// Must be safe for concurrent use. Single-key reads must observe existence
// and value in one round trip; there is no separate existence check to race
// against.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (ttl <= 0 means no expiry).
	// May ignore cost if unsupported. Returns ok=false when the store
	// rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// GetMany returns present entries only; absent keys are simply not in
	// the map. A non-nil error means the whole round trip failed.
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)

	// SetMany applies entries best-effort and reports a result for every
	// entry: nil on success, the failure otherwise. Not all-or-nothing -
	// stores without multi-key transactions apply what they can.
	SetMany(ctx context.Context, entries []Entry, ttl time.Duration) (map[string]error, error)

	// Del removes keys and returns how many actually existed.
	// Removing absent keys is not an error.
	Del(ctx context.Context, keys ...string) (int64, error)

	// HGet reads a member of a hash collection. Same result shape as Get.
	HGet(ctx context.Context, collection, key string) ([]byte, bool, error)

	// HSet writes a member of a hash collection. created is true when the
	// member did not exist before the write.
	HSet(ctx context.Context, collection, key string, value []byte, cost int64) (created bool, err error)

	// HDel removes a member of a hash collection and returns how many
	// members actually existed (0 or 1).
	HDel(ctx context.Context, collection, key string) (int64, error)

	// Clear empties the store's contents under prefix. Stores that cannot
	// scope deletion to a prefix wipe everything and must document that
	// they may only back a single driver instance.
	Clear(ctx context.Context, prefix string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// CollectionPurger is an optional capability: dropping a whole hash
// collection in one call. Stores that cannot enumerate a collection's
// members (e.g. Ristretto) do not implement it.
type CollectionPurger interface {
	// PurgeCollection removes every member of collection and returns how
	// many members were dropped.
	PurgeCollection(ctx context.Context, collection string) (int64, error)
}
