// Package bigcache adapts allegro/bigcache to store.Store - the
// shared-segment backend. Entries live in large pre-allocated byte slabs
// outside the regular heap, so millions of entries do not burden the GC.
//
// BigCache only supports a global life window, not per-entry TTLs, so each
// value is framed by internal/wire with an absolute deadline: expired and
// corrupt entries are deleted on read and reported as misses. Because of
// the framing this adapter owns its keyspace entirely; foreign writes are
// treated as corruption.
//
// Hash-scoped addressing is emulated by key composition. The entry iterator
// makes collection purges possible, so CollectionPurger is implemented.
// Clear resets the whole cache regardless of prefix: a BigCache store must
// be dedicated to a single driver instance. Under memory pressure the
// oldest entries are dropped (FIFO per shard).
package bigcache

import (
	"context"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/omnicache/internal/keys"
	"github.com/unkn0wn-root/omnicache/internal/wire"
	st "github.com/unkn0wn-root/omnicache/store"
)

type Store struct {
	c *bc.BigCache
}

var _ st.Store = (*Store)(nil)
var _ st.CollectionPurger = (*Store)(nil)

type Config struct {
	// LifeWindow is the global upper bound on entry lifetime; per-entry
	// TTLs shorter than it are enforced via wire framing.
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	deadline, payload, err := wire.Decode(raw)
	if err != nil {
		_ = s.c.Delete(key) // self-heal corrupt/foreign entry
		return nil, false, nil
	}
	if wire.Expired(deadline, time.Now()) {
		_ = s.c.Delete(key)
		return nil, false, nil
	}
	return payload, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}
	if err := s.c.Set(key, wire.Encode(deadline, value)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) GetMany(ctx context.Context, ks []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(ks))
	for _, k := range ks {
		b, ok, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = b
		}
	}
	return out, nil
}

func (s *Store) SetMany(ctx context.Context, entries []st.Entry, ttl time.Duration) (map[string]error, error) {
	res := make(map[string]error, len(entries))
	for _, e := range entries {
		_, err := s.Set(ctx, e.Key, e.Value, e.Cost, ttl)
		res[e.Key] = err
	}
	return res, nil
}

func (s *Store) Del(_ context.Context, ks ...string) (int64, error) {
	var n int64
	for _, k := range ks {
		switch err := s.c.Delete(k); err {
		case nil:
			n++
		case bc.ErrEntryNotFound:
			// absent; not an error
		default:
			return n, err
		}
	}
	return n, nil
}

func (s *Store) HGet(ctx context.Context, collection, key string) ([]byte, bool, error) {
	return s.Get(ctx, keys.Join(collection, key))
}

func (s *Store) HSet(ctx context.Context, collection, key string, value []byte, cost int64) (bool, error) {
	k := keys.Join(collection, key)
	_, existed, err := s.Get(ctx, k) // expired members count as absent
	if err != nil {
		return false, err
	}
	if _, err := s.Set(ctx, k, value, cost, 0); err != nil {
		return false, err
	}
	return !existed, nil
}

func (s *Store) HDel(ctx context.Context, collection, key string) (int64, error) {
	k := keys.Join(collection, key)
	// an expired member counts as already absent
	if _, ok, err := s.Get(ctx, k); err != nil || !ok {
		return 0, err
	}
	return s.Del(ctx, k)
}

// PurgeCollection walks the entry iterator and deletes every member of the
// collection. Best-effort with respect to concurrent writers.
func (s *Store) PurgeCollection(_ context.Context, collection string) (int64, error) {
	prefix := keys.Join(collection, "")
	var members []string
	it := s.c.Iterator()
	for it.SetNext() {
		info, err := it.Value()
		if err != nil {
			continue // entry evicted mid-iteration
		}
		k := info.Key()
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			members = append(members, k)
		}
	}
	var n int64
	for _, k := range members {
		if err := s.c.Delete(k); err == nil {
			n++
		}
	}
	return n, nil
}

// Clear resets the whole cache. BigCache deletions are not prefix-scoped,
// so the store must not be shared between drivers.
func (s *Store) Clear(_ context.Context, _ string) error {
	return s.c.Reset()
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}
