package objcache

import "sync"

// memoryTier is an unbounded in-process map. Entries live until removed,
// cleared, or purged on memory pressure.
type memoryTier[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func newMemoryTier[K comparable, V any]() *memoryTier[K, V] {
	return &memoryTier[K, V]{m: make(map[K]V)}
}

func (t *memoryTier[K, V]) get(key K) (V, bool) {
	t.mu.RLock()
	v, ok := t.m[key]
	t.mu.RUnlock()
	return v, ok
}

func (t *memoryTier[K, V]) put(key K, v V) {
	t.mu.Lock()
	t.m[key] = v
	t.mu.Unlock()
}

// remove reports whether key was present.
func (t *memoryTier[K, V]) remove(key K) bool {
	t.mu.Lock()
	_, ok := t.m[key]
	delete(t.m, key)
	t.mu.Unlock()
	return ok
}

func (t *memoryTier[K, V]) exists(key K) bool {
	t.mu.RLock()
	_, ok := t.m[key]
	t.mu.RUnlock()
	return ok
}

// clear drops every entry and returns how many there were.
func (t *memoryTier[K, V]) clear() int {
	t.mu.Lock()
	n := len(t.m)
	t.m = make(map[K]V)
	t.mu.Unlock()
	return n
}

func (t *memoryTier[K, V]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.m)
}
