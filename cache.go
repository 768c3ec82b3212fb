package swrcache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ComputeFunc produces the cached mapping. It may be slow and may fail.
// It runs on a background goroutine with a context that is never
// cancelled by callers.
type ComputeFunc[K comparable, V any] func(ctx context.Context) (map[K]V, error)

// Cache serves a single computed mapping to many concurrent callers.
// At most one computation runs at a time; callers that find the cache
// empty wait, bounded by MaxWait, for the first value.
//
// Maps returned by a Cache are shared between callers and must not be
// modified.
type Cache[K comparable, V any] struct {
	cfg       Config
	store     *store[K, V]
	refresher *refresher[K, V]
	observer  Observer
	logger    *slog.Logger
}

// New returns a Cache computing its data with fn.
func New[K comparable, V any](fn ComputeFunc[K, V], opts ...Option) *Cache[K, V] {
	s := settings{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	c := &Cache[K, V]{
		cfg:      s.cfg.normalize(),
		store:    newStore[K, V](),
		observer: s.observer,
		logger:   s.logger,
	}
	c.refresher = &refresher[K, V]{
		compute: fn,
		store:   c.store,
		emit:    c.emit,
		logger:  s.logger,
	}
	return c
}

// Get returns the cached mapping, computing it if needed. It never fails:
// when no data shows up within MaxWait, when ctx ends first, or when the
// in-flight computation fails on an empty cache, Get logs the condition
// and returns an empty map.
func (c *Cache[K, V]) Get(ctx context.Context) map[K]V {
	if c.store.clearIfStale(c.cfg.TTL) {
		c.logger.Info("cache expired", "ttl", c.cfg.TTL)
		c.emit(EventData{Event: EventExpired})
	}

	e := c.store.read()
	if c.needsRefresh(e) {
		c.refresher.trigger(ctx, e)
	}
	if e.present {
		c.emit(EventData{Event: EventHit})
		return e.data
	}

	c.emit(EventData{Event: EventMiss})
	started := time.Now()
	data, err := c.wait(ctx, e)
	if err == nil {
		return data
	}

	waited := time.Since(started)
	var failure refreshFailure
	switch {
	case errors.As(err, &failure):
		c.logger.Error("no data available, returning empty result", "error", err, "waited", waited)
	case errors.Is(err, ErrWaitTimeout):
		c.logger.Error("no data available, returning empty result", "error", err, "waited", waited)
		c.emit(EventData{Event: EventWaitTimeout, Duration: waited, Err: err})
	default:
		c.logger.Warn("caller stopped waiting, returning empty result", "error", err, "waited", waited)
		c.emit(EventData{Event: EventWaitCancelled, Duration: waited, Err: err})
	}
	return make(map[K]V)
}

func (c *Cache[K, V]) needsRefresh(e *entry[K, V]) bool {
	if !e.present {
		return true
	}
	return c.cfg.RefreshAhead > 0 && e.age(time.Now()) > c.cfg.RefreshAhead
}

// wait blocks until an entry with data is published after e. A failure
// recorded on an entry published after e ends the wait early.
func (c *Cache[K, V]) wait(ctx context.Context, e *entry[K, V]) (map[K]V, error) {
	timer := time.NewTimer(c.cfg.MaxWait)
	defer timer.Stop()

	for {
		select {
		case <-e.ready:
		case <-timer.C:
			return nil, ErrWaitTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		e = c.store.read()
		if e.present {
			return e.data, nil
		}
		if e.failure != nil {
			return nil, refreshFailure{e.failure}
		}
	}
}

// Peek returns the current data without waiting, refreshing or expiring.
func (c *Cache[K, V]) Peek() (map[K]V, bool) {
	e := c.store.read()
	return e.data, e.present
}

// Refresh forces a computation, or joins the one in flight, and returns
// its result. A failed computation leaves the cached data untouched.
func (c *Cache[K, V]) Refresh(ctx context.Context) (map[K]V, error) {
	return c.refresher.refresh(ctx)
}

// Refreshing reports whether a computation is in flight.
func (c *Cache[K, V]) Refreshing() bool {
	return c.refresher.running.Load()
}

// LastError returns the error of the most recent computation, or nil if
// it succeeded.
func (c *Cache[K, V]) LastError() error {
	return c.refresher.lastError()
}

// UpdatedAt returns the time of the last replace or clear. It is the zero
// time until the first mutation.
func (c *Cache[K, V]) UpdatedAt() time.Time {
	return c.store.read().updatedAt
}

func (c *Cache[K, V]) emit(eventData EventData) {
	if c.observer == nil {
		return
	}
	c.observer.On(eventData)
}
