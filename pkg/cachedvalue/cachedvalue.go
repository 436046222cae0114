// Package cachedvalue provides a single cached value with a TTL and a stale
// window. Within the TTL the cached value is served directly. Inside the stale
// window one caller revalidates while concurrent callers keep receiving the
// previous value. Past the stale window the value is gone and callers block on
// a fresh load.
package cachedvalue

import (
	"context"
	"sync"
	"time"
)

// LoadFunc produces a fresh value. An error must leave the cache unpopulated.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Value is a cached value of type T guarded by TTL + stale-window predicates.
type Value[T any] struct {
	ttl         time.Duration
	staleWindow time.Duration
	now         func() time.Time

	mu           sync.Mutex
	value        T
	cachedAt     time.Time
	populated    bool
	revalidating bool
}

// New builds an empty cached value. now is injectable for tests; pass nil for
// time.Now.
func New[T any](ttl, staleWindow time.Duration, now func() time.Time) *Value[T] {
	if now == nil {
		now = time.Now
	}
	return &Value[T]{ttl: ttl, staleWindow: staleWindow, now: now}
}

func (v *Value[T]) age() time.Duration {
	return v.now().Sub(v.cachedAt)
}

// isFresh reports whether the cached value is inside its TTL.
func (v *Value[T]) isFresh() bool {
	return v.populated && v.age() < v.ttl
}

// isStale reports whether the value is past TTL but inside the stale window.
func (v *Value[T]) isStale() bool {
	return v.populated && !v.isFresh() && v.age() < v.ttl+v.staleWindow
}

// isExpired reports whether the value is unusable.
func (v *Value[T]) isExpired() bool {
	return !v.populated || v.age() >= v.ttl+v.staleWindow
}

// Get returns the cached value, loading when needed.
//
// Fresh: cached value, no load. Stale: the first caller loads, concurrent
// callers get the previous value immediately; this bounds but does not
// eliminate duplicate loads across processes. Expired/empty: load inline.
// Load errors never populate the cache and are returned to the caller.
func (v *Value[T]) Get(ctx context.Context, load LoadFunc[T]) (T, error) {
	v.mu.Lock()

	if v.isFresh() {
		val := v.value
		v.mu.Unlock()
		return val, nil
	}

	if v.isStale() {
		if v.revalidating {
			val := v.value
			v.mu.Unlock()
			return val, nil
		}
		v.revalidating = true
		prev := v.value
		v.mu.Unlock()

		val, err := load(ctx)

		v.mu.Lock()
		v.revalidating = false
		if err != nil {
			v.mu.Unlock()
			return prev, err
		}
		v.value = val
		v.cachedAt = v.now()
		v.populated = true
		v.mu.Unlock()
		return val, nil
	}

	// Expired or never populated: load while holding the lock so only one
	// caller hits the backing check.
	defer v.mu.Unlock()
	val, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	v.value = val
	v.cachedAt = v.now()
	v.populated = true
	return val, nil
}

// Invalidate drops the cached value.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.value = zero
	v.populated = false
}
