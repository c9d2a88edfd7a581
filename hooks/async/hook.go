// Package asynchook decorates a Hooks implementation with a bounded queue so
// slow sinks never stall driver hot paths. Events are dropped when the queue
// is full.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{SelfHealEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := omnicache.New[User](omnicache.Options[User]{
//	    Namespace: "user",
//	    Store:     store,
//	    Codec:     codec.JSON[User]{},
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/omnicache"
)

type Hooks struct {
	inner omnicache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ omnicache.Hooks = (*Hooks)(nil)

func New(inner omnicache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHeal(k, r string)   { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) WriteRejected(k string) { h.try(func() { h.inner.WriteRejected(k) }) }
func (h *Hooks) PartialBatch(ns string, failed, total int) {
	h.try(func() { h.inner.PartialBatch(ns, failed, total) })
}
func (h *Hooks) StoreError(op string, err error) {
	h.try(func() { h.inner.StoreError(op, err) })
}
