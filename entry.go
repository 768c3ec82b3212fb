package swrcache

import "time"

// entry is one published state of the cache. Entries are immutable once
// stored; every mutation publishes a new entry and closes the ready channel
// of the one it supersedes.
type entry[K comparable, V any] struct {
	data      map[K]V
	present   bool
	updatedAt time.Time

	// failure is set when a refresh failed while the cache was empty.
	failure error

	ready chan struct{}
}

func newEntry[K comparable, V any](data map[K]V, present bool, updatedAt time.Time) *entry[K, V] {
	return &entry[K, V]{
		data:      data,
		present:   present,
		updatedAt: updatedAt,
		ready:     make(chan struct{}),
	}
}

func (e *entry[K, V]) age(now time.Time) time.Duration {
	return now.Sub(e.updatedAt)
}

func (e *entry[K, V]) stale(now time.Time, ttl time.Duration) bool {
	return e.age(now) > ttl
}
