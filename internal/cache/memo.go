// Package cache provides the append-only memo used by the loader and geo filter.
package cache

import "sync"

// Memo is a thread-safe key/value memo with no eviction. Entries live until
// Invalidate is called. Failed computations are not stored, so a later call retries.
type Memo[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates an empty Memo.
func New[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{entries: make(map[K]V)}
}

// Get returns the value stored for key.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// GetOrCompute returns the stored value for key, or calls compute and stores its
// result. The returned bool is true on a hit. compute runs without the lock held;
// when two callers race on the same key the first stored value wins.
func (m *Memo[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, bool, error) {
	if v, ok := m.Get(key); ok {
		return v, true, nil
	}

	v, err := compute()
	if err != nil {
		var zero V
		return zero, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[key]; ok {
		return existing, false, nil
	}
	m.entries[key] = v
	return v, false, nil
}

// Invalidate drops the entry for key, if any.
func (m *Memo[K, V]) Invalidate(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// InvalidateFunc drops every entry whose key satisfies match.
func (m *Memo[K, V]) InvalidateFunc(match func(K) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if match(k) {
			delete(m.entries, k)
		}
	}
}

// Len returns the number of stored entries.
func (m *Memo[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
