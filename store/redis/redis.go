// Package redis adapts a Redis client to store.Store.
//
// Hash-scoped addressing maps onto native Redis hashes (HSET/HGET), so the
// created/replaced distinction comes straight from the server. GetMany is a
// single MGET round trip; SetMany pipelines individual SETs and reports
// per-command errors - Redis offers no multi-key SET-with-TTL transaction,
// and this adapter does not pretend otherwise.
//
// Clear scans the driver's namespace prefix and deletes in batches, so a
// shared logical database is safe: only keys under the prefix are touched.
// TTL precision is whatever the server supports (milliseconds); eviction
// under memory pressure follows the server's configured maxmemory policy.
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	st "github.com/unkn0wn-root/omnicache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

const scanBatch = 128

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ st.Store = (*Redis)(nil)
var _ st.CollectionPurger = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (s *Redis) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 0 // non-positive TTL means "no expiry" per store contract
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Redis) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	for i, v := range vals {
		if v == nil {
			continue // miss
		}
		// go-redis returns MGET members as strings
		if sv, ok := v.(string); ok {
			out[keys[i]] = []byte(sv)
		}
	}
	return out, nil
}

func (s *Redis) SetMany(ctx context.Context, entries []st.Entry, ttl time.Duration) (map[string]error, error) {
	res := make(map[string]error, len(entries))
	if len(entries) == 0 {
		return res, nil
	}
	if ttl <= 0 {
		ttl = 0
	}

	pipe := s.rdb.Pipeline()
	cmds := make(map[string]*goredis.StatusCmd, len(entries))
	for _, e := range entries {
		cmds[e.Key] = pipe.Set(ctx, e.Key, e.Value, ttl)
	}
	// Exec returns the first error; per-key outcomes come from the
	// individual commands so partial application stays visible.
	_, _ = pipe.Exec(ctx)
	for k, cmd := range cmds {
		res[k] = cmd.Err()
	}
	return res, nil
}

func (s *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return s.rdb.Del(ctx, keys...).Result()
}

func (s *Redis) HGet(ctx context.Context, collection, key string) ([]byte, bool, error) {
	b, err := s.rdb.HGet(ctx, collection, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Redis) HSet(ctx context.Context, collection, key string, value []byte, _ int64) (bool, error) {
	added, err := s.rdb.HSet(ctx, collection, key, value).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (s *Redis) HDel(ctx context.Context, collection, key string) (int64, error) {
	return s.rdb.HDel(ctx, collection, key).Result()
}

// PurgeCollection counts members and drops the hash in one MULTI/EXEC block.
func (s *Redis) PurgeCollection(ctx context.Context, collection string) (int64, error) {
	var lenCmd *goredis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		lenCmd = pipe.HLen(ctx, collection)
		pipe.Del(ctx, collection)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return lenCmd.Val(), nil
}

// escapeMatch quotes glob metacharacters so a literal prefix cannot be read
// as a SCAN MATCH pattern. Redis honors backslash escapes inside MATCH.
func escapeMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '*', '?', '[', ']', '^', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (s *Redis) Clear(ctx context.Context, prefix string) error {
	iter := s.rdb.Scan(ctx, 0, escapeMatch(prefix)+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
