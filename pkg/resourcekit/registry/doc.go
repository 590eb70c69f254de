// Package registry provides a generic, concurrency-safe registry that
// lazily constructs and caches expensive keyed resources.
//
// Unlike a plain map-with-mutex, the registry coordinates construction:
// a resource is built by a caller-supplied factory exactly once per key,
// slow constructions never block operations on other keys, and removal
// interacts safely with constructions still in flight.
//
// # Basic Usage
//
// Create a registry with a factory and ask for resources by key:
//
//	r := registry.New(func(ctx context.Context, addr string, cfg PoolConfig) (*Pool, error) {
//	    return DialPool(ctx, addr, cfg)
//	})
//
//	pool, err := r.AddIfAbsent(ctx, "db-east", cfg)
//	if err != nil {
//	    // the factory failed; the registry holds no entry for "db-east"
//	}
//
// AddIfAbsent is the get-or-create form: concurrent calls for the same
// key result in a single factory invocation, with all callers receiving
// the same resource. Add is the unconditional form and fails with
// ErrAlreadyExists when the key is live.
//
// # Construction States
//
// Each entry is either pending (construction in flight) or ready.
// The table mutex guards only membership and the pending-to-ready
// transition; it is never held while the factory runs. Callers that hit
// a pending entry wait on a one-shot readiness channel that the
// constructing goroutine closes when construction settles, then
// re-resolve against the table. A failed construction removes its entry
// entirely, so later attempts start from scratch.
//
// # Blocking Behavior
//
//   - Add never waits on another construction; it fails fast instead.
//   - AddIfAbsent, Get, and Remove wait for an in-flight construction
//     of the same key before reporting a definitive result.
//   - Operations on different keys only contend on the brief table
//     mutex critical sections.
//
// There is no deadline on waits: a blocked caller is released when the
// construction it observes succeeds or fails.
package registry
