// Package omnicache implements a backend-agnostic cache driver: one contract
// for storing, retrieving and invalidating values that behaves identically
// across interchangeable storage backends. A miss is never an error and is
// never inferred from a falsy payload; every lookup carries an explicit hit
// flag, so empty strings, zeros and false round-trip as hits.
//
// Components:
//   - Store: byte store with TTL (e.g. Ristretto, BigCache, Redis).
//   - Codec[V]: (de)serializes V <-> []byte.
//   - Driver[V]: the uniform contract callers program against.
//
// Two addressing modes share one physical store without colliding:
//
//	<ns>:k:<key>         - flat entries
//	<ns>:h:<collection>  - hash-scoped collections (member key addresses within)
//
// Typical use:
//
//	it, err := cache.Get(ctx, "user:1")
//	if err != nil { ... } // backend failure, not a miss
//	if !it.Hit { ... }    // miss; fall back to the source of truth
//	use(it.Value)
package omnicache
