package swrcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// ErrComputePanic is wrapped around the value of a panic raised by a
// ComputeFunc.
var ErrComputePanic = errors.New("swrcache: compute panicked")

// refresher runs at most one computation at a time and publishes its
// result to the store.
type refresher[K comparable, V any] struct {
	group   singleflight.Group
	running atomic.Bool

	compute ComputeFunc[K, V]
	store   *store[K, V]
	emit    func(EventData)
	logger  *slog.Logger

	mu      sync.Mutex
	lastErr error
}

// trigger claims the in-flight marker and dispatches a background
// computation. It never blocks and reports false when a computation was
// already in flight. seen is the entry the caller acted on; see run.
func (r *refresher[K, V]) trigger(ctx context.Context, seen *entry[K, V]) bool {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Debug("refresh already in flight, skipping")
		r.emit(EventData{Event: EventRefreshSkipped})
		return false
	}
	// The result channel is buffered by singleflight, so dropping it is safe.
	r.group.DoChan(refreshKey, r.run(ctx, seen))
	return true
}

// refresh starts or joins a computation and waits for its result.
func (r *refresher[K, V]) refresh(ctx context.Context) (map[K]V, error) {
	// Claim the marker if it is free; otherwise join the running flight.
	r.running.CompareAndSwap(false, true)
	ch := r.group.DoChan(refreshKey, r.run(ctx, nil))
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("refreshing cache: %w", res.Err)
		}
		return res.Val.(map[K]V), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release ends the flight. It runs once per executed flight, inside the
// publish critical section, so a caller that saw the marker clear always
// sees the new entry too.
func (r *refresher[K, V]) release() {
	r.group.Forget(refreshKey)
	r.running.Store(false)
}

// run returns the flight body. When seen is non-nil and another flight
// has already replaced it with data, the current data is returned without
// computing again. A nil seen always computes.
func (r *refresher[K, V]) run(ctx context.Context, seen *entry[K, V]) func() (any, error) {
	ctx = context.WithoutCancel(ctx)
	return func() (any, error) {
		released := false
		release := func() {
			if !released {
				released = true
				r.release()
			}
		}
		defer release()

		// Double-check: another flight may have filled the cache since the
		// caller read it.
		if cur := r.store.locked(); seen != nil && cur != seen && cur.present {
			release()
			r.logger.Debug("cache already refreshed, skipping computation")
			return cur.data, nil
		}

		id := uuid.NewString()
		log := r.logger.With("refresh_id", id)

		r.emit(EventData{Event: EventRefreshStarted, RefreshID: id})
		started := time.Now()
		data, err := r.safeCompute(ctx)
		elapsed := time.Since(started)

		if err != nil {
			r.setLastErr(err)
			r.store.publish(nil, err, release)
			log.Error("refresh failed, keeping previous data", "error", err, "duration", elapsed)
			r.emit(EventData{Event: EventRefreshFailed, RefreshID: id, Duration: elapsed, Err: err})
			return nil, err
		}

		if data == nil {
			data = make(map[K]V)
		}
		r.setLastErr(nil)
		r.store.publish(data, nil, release)
		log.Debug("data replaced", "entries", len(data), "duration", elapsed)
		r.emit(EventData{Event: EventRefreshSucceeded, RefreshID: id, Duration: elapsed})
		return data, nil
	}
}

func (r *refresher[K, V]) safeCompute(ctx context.Context) (data map[K]V, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrComputePanic, p)
		}
	}()
	return r.compute(ctx)
}

func (r *refresher[K, V]) setLastErr(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}

func (r *refresher[K, V]) lastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
