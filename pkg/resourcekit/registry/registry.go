package registry

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
)

// Factory constructs a resource for a key. It is invoked with no
// registry locks held, may block or perform I/O, and must be safe to
// call concurrently for different keys. The registry guarantees at most
// one invocation in flight per key.
type Factory[K cmp.Ordered, P any, R any] func(ctx context.Context, key K, params P) (R, error)

// entry is the per-key bookkeeping record. It is in exactly one of two
// states while present in the table:
//
//	pending: done is non-nil; closed once when construction settles
//	ready:   done is nil; resource holds the constructed value
//
// Waiters capture the done channel under the table mutex while the
// entry is pending, wait on it without the mutex, then re-resolve.
type entry[R any] struct {
	done     chan struct{}
	resource R
}

// Registry maps keys to lazily constructed resources. The zero value is
// not usable; create one with New. All methods are safe for concurrent
// use.
type Registry[K cmp.Ordered, P any, R any] struct {
	factory Factory[K, P, R]

	// mu guards table membership and entry state transitions only.
	// It is never held across a factory call or a wait on an entry's
	// done channel.
	mu      sync.Mutex
	entries map[K]*entry[R]
}

// New creates an empty registry that constructs resources with factory.
// It panics if factory is nil.
func New[K cmp.Ordered, P any, R any](factory Factory[K, P, R]) *Registry[K, P, R] {
	if factory == nil {
		panic("registry: nil factory")
	}
	return &Registry[K, P, R]{
		factory: factory,
		entries: make(map[K]*entry[R]),
	}
}

// Add unconditionally constructs and registers a resource for key.
// It fails with ErrAlreadyExists if the key is live, whether ready or
// still under construction. On factory failure the pending entry is
// removed, waiters are released, and a *ConstructionError wrapping the
// factory's error is returned; the table is left as if Add had never
// been called.
func (r *Registry[K, P, R]) Add(ctx context.Context, key K, params P) (R, error) {
	e := &entry[R]{done: make(chan struct{})}

	r.mu.Lock()
	if _, exists := r.entries[key]; exists {
		r.mu.Unlock()
		var zero R
		return zero, fmt.Errorf("add %v: %w", key, ErrAlreadyExists)
	}
	r.entries[key] = e
	r.mu.Unlock()

	return r.construct(ctx, key, params, e)
}

// AddIfAbsent returns the resource for key, constructing and
// registering it if absent. A ready entry is returned without blocking
// and without a factory call. A pending entry causes the caller to wait
// for that construction and then retry from the top, so a factory
// failure observed by waiters leads to a fresh construction attempt
// rather than an error. For any key, at most one factory invocation is
// in flight at a time.
func (r *Registry[K, P, R]) AddIfAbsent(ctx context.Context, key K, params P) (R, error) {
	for {
		r.mu.Lock()
		if e, ok := r.entries[key]; ok {
			if e.done == nil {
				res := e.resource
				r.mu.Unlock()
				return res, nil
			}
			done := e.done
			r.mu.Unlock()
			<-done
			// The entry either became ready or vanished via failure
			// cleanup; re-check the table either way.
			continue
		}

		e := &entry[R]{done: make(chan struct{})}
		r.entries[key] = e
		r.mu.Unlock()
		return r.construct(ctx, key, params, e)
	}
}

// construct runs the factory for a pending entry the caller has already
// inserted, then settles the entry. No locks are held during the
// factory call.
func (r *Registry[K, P, R]) construct(ctx context.Context, key K, params P, e *entry[R]) (R, error) {
	res, err := r.factory(ctx, key, params)
	if err != nil {
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
		close(e.done)
		var zero R
		return zero, &ConstructionError{Key: fmt.Sprint(key), Err: err}
	}

	r.mu.Lock()
	e.resource = res
	done := e.done
	e.done = nil
	r.mu.Unlock()
	close(done)
	return res, nil
}

// Get returns the resource for key. A ready entry is returned without
// blocking. A pending entry causes the caller to wait for that
// construction and re-resolve. An absent key fails with ErrNotFound
// immediately; Get never waits for an Add that has not yet inserted its
// pending entry.
func (r *Registry[K, P, R]) Get(key K) (R, error) {
	for {
		r.mu.Lock()
		e, ok := r.entries[key]
		if !ok {
			r.mu.Unlock()
			var zero R
			return zero, fmt.Errorf("get %v: %w", key, ErrNotFound)
		}
		if e.done == nil {
			res := e.resource
			r.mu.Unlock()
			return res, nil
		}
		done := e.done
		r.mu.Unlock()
		<-done
	}
}

// Remove deletes the entry for key and returns the removed resource.
// Removal is idempotent: an absent key returns false with no error.
// When the entry is still pending, Remove waits for the in-flight
// construction to settle before reporting: true with the resource if
// that construction succeeded, false if it failed and cleaned up after
// itself. Remove never races ahead of an in-flight construction for the
// same key.
func (r *Registry[K, P, R]) Remove(key K) (R, bool) {
	var zero R

	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		return zero, false
	}
	if e.done == nil {
		res := e.resource
		delete(r.entries, key)
		r.mu.Unlock()
		return res, true
	}
	done := e.done
	r.mu.Unlock()
	<-done

	// Re-resolve by entry identity. The entry we waited on is now
	// either ready (still in the table) or gone; a different entry
	// under the same key belongs to a later registration.
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[key]; ok && cur == e {
		delete(r.entries, key)
		return cur.resource, true
	}
	return zero, false
}

// Keys returns a sorted snapshot of all registered keys, including keys
// whose resource is still under construction. The snapshot is not
// live-updating.
func (r *Registry[K, P, R]) Keys() []K {
	r.mu.Lock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.Unlock()

	slices.Sort(keys)
	return keys
}

// Has reports whether key is live, ready or pending.
func (r *Registry[K, P, R]) Has(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of live entries, pending entries included.
func (r *Registry[K, P, R]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Range calls fn for each ready resource. Pending entries are skipped;
// Range never blocks on a construction. If fn returns false, iteration
// stops.
//
// Range iterates over a snapshot, so it is safe to call other registry
// methods from fn without affecting the current iteration.
func (r *Registry[K, P, R]) Range(fn func(key K, resource R) bool) {
	r.mu.Lock()
	snapshot := make(map[K]R, len(r.entries))
	for k, e := range r.entries {
		if e.done == nil {
			snapshot[k] = e.resource
		}
	}
	r.mu.Unlock()

	for k, res := range snapshot {
		if !fn(k, res) {
			return
		}
	}
}
