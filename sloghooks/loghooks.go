// Package sloghooks sinks cache events into log/slog with optional sampling
// and key redaction (keys may carry user identifiers).
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/omnicache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery   uint64
	StoreErrorEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr   atomic.Uint64
	storeErrorCtr atomic.Uint64
}

var _ omnicache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("omnicache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) WriteRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("omnicache.write_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) PartialBatch(ns string, failed, total int) {
	if h.l == nil {
		return
	}
	h.l.Warn("omnicache.partial_batch",
		"ns", ns,
		"failed", failed,
		"total", total)
}

func (h *Hooks) StoreError(op string, err error) {
	if h.l == nil || !sample(h.opts.StoreErrorEvery, &h.storeErrorCtr) {
		return
	}
	h.l.Error("omnicache.store_error",
		"op", op,
		"err", err)
}
