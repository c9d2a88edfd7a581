package omnicache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; the driver calls them on
// hot paths. Wrap with hooks/async if a sink may stall.
type Hooks interface {
	// A stored entry failed to decode and was deleted on read.
	// reason ∈ {"value_decode"}
	SelfHeal(storageKey, reason string)

	// The store refused a write under pressure (ok=false from Set/HSet).
	WriteRejected(storageKey string)

	// A batched write applied only partially. failed counts entries whose
	// per-key result carries an error.
	PartialBatch(namespace string, failed, total int)

	// The store returned an I/O error for op ∈
	// {"get", "set", "del", "hget", "hset", "hdel", "get_many", "set_many", "purge", "clear"}.
	StoreError(op string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)       {}
func (NopHooks) WriteRejected(string)          {}
func (NopHooks) PartialBatch(string, int, int) {}
func (NopHooks) StoreError(string, error)      {}
