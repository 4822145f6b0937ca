package service

import "sync"

// keyedMutex serializes work per key. The schema has no structural guard
// against two open carts per user or two active codes per (user, email), so
// those sections are single-writer at the application layer; the map is
// bounded by the number of distinct keys and entries are never evicted.
type keyedMutex struct {
	mu sync.Map
}

func (k *keyedMutex) lock(key string) func() {
	v, _ := k.mu.LoadOrStore(key, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
