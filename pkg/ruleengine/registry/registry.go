package registry

import "sync"

// Registry is a thread-safe registry for values indexed by key.
// It uses sync.RWMutex for read-heavy workloads.
type Registry[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]V
	capacity int
}

// New creates a registry holding at most capacity entries.
// A capacity of zero or less means no limit.
func New[K comparable, V any](capacity int) *Registry[K, V] {
	return &Registry[K, V]{
		entries:  make(map[K]V),
		capacity: capacity,
	}
}

// Put adds or replaces a value.
func (r *Registry[K, V]) Put(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(key, value)
}

// put stores a value, evicting one entry if the registry is full.
// Caller must hold the write lock.
func (r *Registry[K, V]) put(key K, value V) {
	if _, exists := r.entries[key]; !exists && r.capacity > 0 && len(r.entries) >= r.capacity {
		for k := range r.entries {
			delete(r.entries, k)
			break
		}
	}
	r.entries[key] = value
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Delete removes a key from the registry.
func (r *Registry[K, V]) Delete(key K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clear removes every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[K]V)
}

// GetOrCreate returns the value for a key, creating it with factory if it
// doesn't exist. If factory fails, its error is returned and nothing is
// stored.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() (V, error)) (V, error) {
	// Fast path: check if already exists
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, nil
	}

	// Slow path: create with write lock
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if v, ok := r.entries[key]; ok {
		return v, nil
	}

	v, err := factory()
	if err != nil {
		var zero V
		return zero, err
	}
	r.put(key, v)
	return v, nil
}
