// Package ristretto adapts dgraph-io/ristretto to store.Store - the
// in-process backend.
//
// Ristretto admits writes asynchronously, so every write is followed by
// Wait() and an existence check: the contract's "set then get hits"
// property must hold, and an admission-policy drop is reported as
// store.ErrRejected instead of silently losing the entry.
//
// Hash-scoped addressing is emulated by key composition (Ristretto has no
// native hashes). Keys cannot be enumerated, so CollectionPurger is not
// implemented and Clear wipes the whole cache regardless of prefix: a
// Ristretto store must be dedicated to a single driver instance. Eviction
// under pressure is TinyLFU admission plus sampled LFU eviction.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/omnicache/internal/keys"
	st "github.com/unkn0wn-root/omnicache/store"
)

type Store struct {
	c *rc.Cache
}

var _ st.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
	// Cost is provided by the driver per write.
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	return s.set(key, value, cost, ttl), nil
}

// set stores value and waits for the admission decision. Returns false when
// the entry did not survive admission (new keys rejected under pressure).
func (s *Store) set(key string, value []byte, cost int64, ttl time.Duration) bool {
	if value == nil {
		value = []byte{} // a present empty entry must stay distinguishable from a miss
	}
	if ttl < 0 {
		ttl = 0 // ristretto treats 0 as "no expiry"; negative values would drop the write
	}
	if !s.c.SetWithTTL(key, value, cost, ttl) {
		return false
	}
	s.c.Wait()
	_, ok := s.c.Get(key)
	return ok
}

func (s *Store) GetMany(ctx context.Context, ks []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(ks))
	for _, k := range ks {
		if b, ok, _ := s.Get(ctx, k); ok {
			out[k] = b
		}
	}
	return out, nil
}

func (s *Store) SetMany(_ context.Context, entries []st.Entry, ttl time.Duration) (map[string]error, error) {
	res := make(map[string]error, len(entries))
	for _, e := range entries {
		if s.set(e.Key, e.Value, e.Cost, ttl) {
			res[e.Key] = nil
		} else {
			res[e.Key] = st.ErrRejected
		}
	}
	return res, nil
}

func (s *Store) Del(_ context.Context, ks ...string) (int64, error) {
	var n int64
	for _, k := range ks {
		if _, ok := s.c.Get(k); ok {
			n++
		}
		s.c.Del(k)
	}
	return n, nil
}

func (s *Store) HGet(ctx context.Context, collection, key string) ([]byte, bool, error) {
	return s.Get(ctx, keys.Join(collection, key))
}

func (s *Store) HSet(_ context.Context, collection, key string, value []byte, cost int64) (bool, error) {
	k := keys.Join(collection, key)
	_, existed := s.c.Get(k)
	if !s.set(k, value, cost, 0) {
		return false, st.ErrRejected
	}
	return !existed, nil
}

func (s *Store) HDel(ctx context.Context, collection, key string) (int64, error) {
	return s.Del(ctx, keys.Join(collection, key))
}

// Clear wipes the entire cache. Ristretto cannot enumerate keys, so prefix
// scoping is impossible; the store must not be shared between drivers.
func (s *Store) Clear(_ context.Context, _ string) error {
	s.c.Clear()
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto metrics if enabled (not part of store.Store).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
