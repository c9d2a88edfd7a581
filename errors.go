package omnicache

import (
	"errors"
	"fmt"

	st "github.com/unkn0wn-root/omnicache/store"
)

var (
	// ErrEmptyKey is returned before any backend call when a key is empty.
	ErrEmptyKey = errors.New("omnicache: empty key")
	// ErrEmptyCollection is returned before any backend call when a hash
	// collection name is empty.
	ErrEmptyCollection = errors.New("omnicache: empty collection")
	// ErrInvalidKey is returned when a hash component contains the reserved
	// composition separator.
	ErrInvalidKey = errors.New("omnicache: key contains reserved separator")
	// ErrWriteRejected means the store refused the write under pressure
	// (admission policy, memory limit). Distinct from an I/O failure and
	// from a successful write of an empty value. Aliases store.ErrRejected
	// so both layers report the same sentinel.
	ErrWriteRejected = st.ErrRejected
	// ErrNotSupported is returned by optional operations the configured
	// store cannot implement (e.g. RemoveHash on Ristretto).
	ErrNotSupported = errors.New("omnicache: operation not supported by store")
)

// KeyError wraps a per-key failure from a batched operation so the failing
// key survives aggregation.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("omnicache: key %q: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }
