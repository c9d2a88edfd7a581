package omnicache

import (
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/omnicache/codec"
	"github.com/unkn0wn-root/omnicache/internal/keys"
	st "github.com/unkn0wn-root/omnicache/store"
)

type driver[V any] struct {
	ns         string
	store      st.Store
	codec      c.Codec[V]
	log        Logger
	hooks      Hooks
	enabled    bool
	defaultTTL time.Duration
	cost       CostFunc
}

func newDriver[V any](opts Options[V]) (*driver[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("omnicache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("omnicache: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("omnicache: namespace is required")
	}
	if !keys.ValidNamespace(opts.Namespace) {
		// a ":" would make this namespace's prefix extend a sibling's and
		// let Clear cross the boundary
		return nil, fmt.Errorf("omnicache: namespace %q must not contain %q or the composition separator", opts.Namespace, ":")
	}

	d := &driver[V]{
		ns:         opts.Namespace,
		store:      opts.Store,
		codec:      opts.Codec,
		enabled:    !opts.Disabled,
		defaultTTL: opts.DefaultTTL,
	}

	// defaults
	d.log = orDefault[Logger](opts.Logger, NopLogger{})
	d.hooks = orDefault[Hooks](opts.Hooks, NopHooks{})
	if opts.Cost != nil {
		d.cost = opts.Cost
	} else {
		d.cost = func(_ string, _ []byte) int64 { return 1 }
	}
	return d, nil
}

func (d *driver[V]) Enabled() bool { return d.enabled }

func (d *driver[V]) Close(ctx context.Context) error {
	if d.store != nil {
		return d.store.Close(ctx)
	}
	return nil
}

func (d *driver[V]) Get(ctx context.Context, key string) (Item[V], error) {
	if key == "" {
		return miss[V](key), ErrEmptyKey
	}
	if !d.enabled {
		return miss[V](key), nil
	}
	k := keys.Flat(d.ns, key)
	raw, ok, err := d.store.Get(ctx, k)
	if err != nil {
		d.hooks.StoreError("get", err)
		return miss[V](key), err
	}
	if !ok {
		return miss[V](key), nil
	}
	v, err := d.codec.Decode(raw)
	if err != nil {
		d.selfHeal(ctx, k, "value_decode")
		return miss[V](key), nil
	}
	return hit(key, v), nil
}

func (d *driver[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !d.enabled {
		return nil
	}
	raw, err := d.codec.Encode(value)
	if err != nil {
		return err
	}
	k := keys.Flat(d.ns, key)
	ok, err := d.store.Set(ctx, k, raw, d.cost(k, raw), d.resolveTTL(ttl))
	if err != nil {
		d.hooks.StoreError("set", err)
		return err
	}
	if !ok {
		d.hooks.WriteRejected(k)
		d.log.Debug("set rejected by store (pressure)", Fields{"key": key})
		return ErrWriteRejected
	}
	return nil
}

func (d *driver[V]) Remove(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	if !d.enabled {
		return 0, nil
	}
	n, err := d.store.Del(ctx, keys.Flat(d.ns, key))
	if err != nil {
		d.hooks.StoreError("del", err)
	}
	return n, err
}

func (d *driver[V]) GetWithHash(ctx context.Context, collection, key string) (Item[V], error) {
	if err := validateHashPair(collection, key); err != nil {
		return miss[V](key), err
	}
	if !d.enabled {
		return miss[V](key), nil
	}
	coll := keys.Collection(d.ns, collection)
	raw, ok, err := d.store.HGet(ctx, coll, key)
	if err != nil {
		d.hooks.StoreError("hget", err)
		return miss[V](key), err
	}
	if !ok {
		return miss[V](key), nil
	}
	v, err := d.codec.Decode(raw)
	if err != nil {
		// member decode failure: drop just the member, not the collection
		_, _ = d.store.HDel(ctx, coll, key)
		d.hooks.SelfHeal(keys.Join(coll, key), "value_decode")
		d.log.Debug("self-healed undecodable member", Fields{"collection": collection, "key": key})
		return miss[V](key), nil
	}
	return hit(key, v), nil
}

func (d *driver[V]) SetWithHash(ctx context.Context, collection, key string, value V) (Outcome, error) {
	if err := validateHashPair(collection, key); err != nil {
		return OutcomeFailed, err
	}
	if !d.enabled {
		return OutcomeSkipped, nil
	}
	raw, err := d.codec.Encode(value)
	if err != nil {
		return OutcomeFailed, err
	}
	coll := keys.Collection(d.ns, collection)
	created, err := d.store.HSet(ctx, coll, key, raw, d.cost(coll, raw))
	if err != nil {
		d.hooks.StoreError("hset", err)
		return OutcomeFailed, err
	}
	if created {
		return OutcomeCreated, nil
	}
	return OutcomeReplaced, nil
}

func (d *driver[V]) RemoveWithHash(ctx context.Context, collection, key string) (int64, error) {
	if err := validateHashPair(collection, key); err != nil {
		return 0, err
	}
	if !d.enabled {
		return 0, nil
	}
	n, err := d.store.HDel(ctx, keys.Collection(d.ns, collection), key)
	if err != nil {
		d.hooks.StoreError("hdel", err)
	}
	return n, err
}

func (d *driver[V]) RemoveHash(ctx context.Context, collection string) (int64, error) {
	if !keys.Valid(collection) {
		if collection == "" {
			return 0, ErrEmptyCollection
		}
		return 0, ErrInvalidKey
	}
	if !d.enabled {
		return 0, nil
	}
	purger, ok := d.store.(st.CollectionPurger)
	if !ok {
		return 0, ErrNotSupported
	}
	n, err := purger.PurgeCollection(ctx, keys.Collection(d.ns, collection))
	if err != nil {
		d.hooks.StoreError("purge", err)
	}
	return n, err
}

func (d *driver[V]) GetMany(ctx context.Context, userKeys []string) (map[string]Item[V], error) {
	out := make(map[string]Item[V], len(userKeys))
	for _, k := range userKeys {
		if k == "" {
			return nil, ErrEmptyKey
		}
	}
	if !d.enabled || len(userKeys) == 0 {
		for _, k := range userKeys {
			out[k] = miss[V](k)
		}
		return out, nil
	}

	storage := make([]string, 0, len(userKeys))
	for _, k := range userKeys {
		storage = append(storage, keys.Flat(d.ns, k))
	}
	found, err := d.store.GetMany(ctx, storage)
	if err != nil {
		d.hooks.StoreError("get_many", err)
		return nil, err
	}

	// every requested key gets exactly one item, hit or miss
	for _, k := range userKeys {
		sk := keys.Flat(d.ns, k)
		raw, ok := found[sk]
		if !ok {
			out[k] = miss[V](k)
			continue
		}
		v, err := d.codec.Decode(raw)
		if err != nil {
			d.selfHeal(ctx, sk, "value_decode")
			out[k] = miss[V](k)
			continue
		}
		out[k] = hit(k, v)
	}
	return out, nil
}

func (d *driver[V]) SetMany(ctx context.Context, entries map[string]V, ttl time.Duration) (map[string]error, error) {
	for k := range entries {
		if k == "" {
			return nil, ErrEmptyKey
		}
	}
	res := make(map[string]error, len(entries))
	if !d.enabled || len(entries) == 0 {
		for k := range entries {
			res[k] = nil
		}
		return res, nil
	}

	batch := make([]st.Entry, 0, len(entries))
	for k, v := range entries {
		raw, err := d.codec.Encode(v)
		if err != nil {
			// encode failures are per-key outcomes; the rest still ships
			res[k] = &KeyError{Key: k, Err: err}
			continue
		}
		sk := keys.Flat(d.ns, k)
		batch = append(batch, st.Entry{Key: sk, Value: raw, Cost: d.cost(sk, raw)})
	}

	stored, err := d.store.SetMany(ctx, batch, d.resolveTTL(ttl))
	if err != nil {
		d.hooks.StoreError("set_many", err)
		for _, e := range batch {
			res[userKeyOf(d.ns, e.Key)] = err
		}
		return res, err
	}
	for _, e := range batch {
		uk := userKeyOf(d.ns, e.Key)
		if serr := stored[e.Key]; serr != nil {
			res[uk] = &KeyError{Key: uk, Err: serr}
		} else {
			res[uk] = nil
		}
	}

	if failed := countFailed(res); failed > 0 {
		d.hooks.PartialBatch(d.ns, failed, len(entries))
		d.log.Warn("batched set applied partially", Fields{"failed": failed, "total": len(entries)})
	}
	return res, nil
}

func (d *driver[V]) RemoveMany(ctx context.Context, userKeys []string) (int64, error) {
	for _, k := range userKeys {
		if k == "" {
			return 0, ErrEmptyKey
		}
	}
	if !d.enabled || len(userKeys) == 0 {
		return 0, nil
	}
	storage := make([]string, 0, len(userKeys))
	for _, k := range userKeys {
		storage = append(storage, keys.Flat(d.ns, k))
	}
	n, err := d.store.Del(ctx, storage...)
	if err != nil {
		d.hooks.StoreError("del", err)
	}
	return n, err
}

func (d *driver[V]) Clear(ctx context.Context) error {
	if !d.enabled {
		return nil
	}
	if err := d.store.Clear(ctx, keys.Prefix(d.ns)); err != nil {
		d.hooks.StoreError("clear", err)
		return err
	}
	d.log.Info("cleared namespace", Fields{"ns": d.ns})
	return nil
}

// resolveTTL applies the configured default when the caller passed 0.
// The resolved value may still be 0, which means "no expiry".
func (d *driver[V]) resolveTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return d.defaultTTL
	}
	if ttl < 0 {
		return 0
	}
	return ttl
}

func (d *driver[V]) selfHeal(ctx context.Context, storageKey, reason string) {
	_, _ = d.store.Del(ctx, storageKey)
	d.hooks.SelfHeal(storageKey, reason)
	d.log.Debug("self-healed undecodable entry", Fields{"key": storageKey, "reason": reason})
}

func validateHashPair(collection, key string) error {
	if collection == "" {
		return ErrEmptyCollection
	}
	if key == "" {
		return ErrEmptyKey
	}
	if !keys.Valid(collection) || !keys.Valid(key) {
		return ErrInvalidKey
	}
	return nil
}

func userKeyOf(ns, storageKey string) string {
	return storageKey[len(keys.Flat(ns, "")):]
}

func countFailed(res map[string]error) int {
	n := 0
	for _, err := range res {
		if err != nil {
			n++
		}
	}
	return n
}
