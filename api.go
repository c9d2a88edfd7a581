package omnicache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/omnicache/codec"
	st "github.com/unkn0wn-root/omnicache/store"
)

// CostFunc computes the admission cost a store charges for an entry.
// Only cost-based stores (e.g. Ristretto) consult it.
type CostFunc func(key string, raw []byte) int64

// Outcome reports what a hash-scoped write did.
type Outcome int

const (
	OutcomeFailed   Outcome = iota // write did not persist; inspect the error
	OutcomeCreated                 // member did not exist before
	OutcomeReplaced                // member existed and was overwritten
	OutcomeSkipped                 // driver is disabled; the write was a no-op
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Driver is the backend-agnostic cache contract. Every Store yields identical
// externally observable semantics through it - callers switch backends by
// swapping the Store at construction, never by changing call sites.
//
// Absence is always reported via Item.Hit, never as an error; errors mean the
// backend itself failed. The driver adds no locking of its own: concurrency
// safety is whatever the underlying store natively provides.
type Driver[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Flat addressing
	Get(ctx context.Context, key string) (Item[V], error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Remove(ctx context.Context, key string) (int64, error)

	// Hash-scoped addressing (collection + member key)
	GetWithHash(ctx context.Context, collection, key string) (Item[V], error)
	SetWithHash(ctx context.Context, collection, key string, value V) (Outcome, error)
	RemoveWithHash(ctx context.Context, collection, key string) (int64, error)
	// RemoveHash drops every member of a collection. Only stores that can
	// enumerate members support it (see store.CollectionPurger); otherwise
	// ErrNotSupported is returned.
	RemoveHash(ctx context.Context, collection string) (int64, error)

	// Batched variants. Never all-or-nothing: per-key outcomes are reported
	// so callers can detect partial application.
	GetMany(ctx context.Context, keys []string) (map[string]Item[V], error)
	SetMany(ctx context.Context, entries map[string]V, ttl time.Duration) (map[string]error, error)
	RemoveMany(ctx context.Context, keys []string) (int64, error)

	// Clear empties this driver's namespace. Scope depends on the store:
	// prefix-aware stores (Redis) delete only this namespace, whole-store
	// backends (Ristretto, BigCache) wipe everything they hold.
	Clear(ctx context.Context) error
}

// Options tune the driver. Namespace, Store and Codec are required;
// everything else has a usable default.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions, e.g. "user", "session"
	Store     st.Store
	Codec     c.Codec[V]

	Logger     Logger        // nil => NopLogger
	Hooks      Hooks         // nil => NopHooks
	DefaultTTL time.Duration // applied when Set/SetMany get ttl==0; 0 => no expiry
	Cost       CostFunc      // nil => constant 1
	Disabled   bool          // disabled drivers miss every read and ignore writes
}

func New[V any](opts Options[V]) (Driver[V], error) {
	return newDriver[V](opts)
}
