// Package promhook exports cache events as Prometheus counters.
// Counters are cheap to bump, so this sink is safe to use without the
// async decorator.
package promhook

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/omnicache"
)

type Hooks struct {
	selfHeals     *prometheus.CounterVec
	rejected      prometheus.Counter
	partialFailed *prometheus.CounterVec
	storeErrors   *prometheus.CounterVec
}

var _ omnicache.Hooks = (*Hooks)(nil)

// New builds the hook and registers its collectors on reg.
// Pass prometheus.DefaultRegisterer for the default registry.
func New(reg prometheus.Registerer) (*Hooks, error) {
	h := &Hooks{
		selfHeals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "omnicache",
			Name:      "self_heals_total",
			Help:      "Entries deleted on read because they failed to decode.",
		}, []string{"reason"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "omnicache",
			Name:      "writes_rejected_total",
			Help:      "Writes refused by the store under pressure.",
		}),
		partialFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "omnicache",
			Name:      "batch_entries_failed_total",
			Help:      "Entries of batched writes whose per-key result carried an error.",
		}, []string{"cache_ns"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "omnicache",
			Name:      "store_errors_total",
			Help:      "I/O errors returned by the backing store.",
		}, []string{"op"}),
	}
	for _, c := range []prometheus.Collector{h.selfHeals, h.rejected, h.partialFailed, h.storeErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) SelfHeal(_, reason string) { h.selfHeals.WithLabelValues(reason).Inc() }
func (h *Hooks) WriteRejected(string)      { h.rejected.Inc() }
func (h *Hooks) PartialBatch(ns string, failed, _ int) {
	h.partialFailed.WithLabelValues(ns).Add(float64(failed))
}
func (h *Hooks) StoreError(op string, _ error) { h.storeErrors.WithLabelValues(op).Inc() }
