package swrcache

import (
	"sync"
	"sync/atomic"
	"time"
)

// store owns the single cache entry. Mutations are serialized by mu and
// published through cur, so readers never take the lock.
type store[K comparable, V any] struct {
	mu  sync.Mutex
	cur atomic.Pointer[entry[K, V]]
}

func newStore[K comparable, V any]() *store[K, V] {
	s := &store[K, V]{}
	s.cur.Store(newEntry[K, V](nil, false, time.Time{}))
	return s
}

func (s *store[K, V]) read() *entry[K, V] {
	return s.cur.Load()
}

// clearIfStale drops the data when the entry is older than ttl and reports
// whether it did.
func (s *store[K, V]) clearIfStale(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	old := s.cur.Load()
	if !old.stale(now, ttl) {
		return false
	}
	s.swapLocked(old, newEntry[K, V](nil, false, now))
	return true
}

// locked reads the entry under mu, so it observes any publish already in
// progress.
func (s *store[K, V]) locked() *entry[K, V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Load()
}

func (s *store[K, V]) replace(data map[K]V) {
	s.publish(data, nil, nil)
}

// fail records a failed refresh on an empty entry, waking its waiters.
// Present data is left untouched.
func (s *store[K, V]) fail(err error) {
	s.publish(nil, err, nil)
}

// publish installs the outcome of a computation. before, when set, runs
// under mu ahead of the swap so that nothing reading through locked can
// observe it without also observing the new entry.
func (s *store[K, V]) publish(data map[K]V, err error, before func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if before != nil {
		before()
	}
	old := s.cur.Load()
	if err != nil {
		if old.present {
			return
		}
		next := newEntry[K, V](nil, false, old.updatedAt)
		next.failure = err
		s.swapLocked(old, next)
		return
	}
	if data == nil {
		data = make(map[K]V)
	}
	s.swapLocked(old, newEntry(data, true, time.Now()))
}

func (s *store[K, V]) swapLocked(old, next *entry[K, V]) {
	s.cur.Store(next)
	close(old.ready)
}
