package swrcache

import "time"

// Observer receives cache lifecycle events. Implementations must be safe
// for concurrent use: refresh events are emitted from the background
// goroutine running the computation.
type Observer interface {
	On(eventData EventData)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(eventData EventData)

// On calls f(eventData).
func (f ObserverFunc) On(eventData EventData) {
	f(eventData)
}

// Event represents a cache event type.
type Event int

const (
	// EventHit is emitted when Get finds data without waiting.
	EventHit Event = iota
	// EventMiss is emitted when Get finds the cache empty and starts waiting.
	EventMiss
	// EventExpired is emitted when Get clears data older than the TTL.
	EventExpired
	// EventRefreshStarted is emitted when a computation begins.
	EventRefreshStarted
	// EventRefreshSkipped is emitted when a refresh trigger arrives while
	// a computation is already in flight.
	EventRefreshSkipped
	// EventRefreshSucceeded is emitted when a computation returns data.
	EventRefreshSucceeded
	// EventRefreshFailed is emitted when a computation returns an error
	// or panics.
	EventRefreshFailed
	// EventWaitTimeout is emitted when Get gives up waiting after MaxWait
	// and returns an empty map.
	EventWaitTimeout
	// EventWaitCancelled is emitted when the caller's context ends before
	// data arrives. Err holds the context error.
	EventWaitCancelled
)

var eventNames = [...]string{
	EventHit:              "hit",
	EventMiss:             "miss",
	EventExpired:          "expired",
	EventRefreshStarted:   "refresh_started",
	EventRefreshSkipped:   "refresh_skipped",
	EventRefreshSucceeded: "refresh_succeeded",
	EventRefreshFailed:    "refresh_failed",
	EventWaitTimeout:      "wait_timeout",
	EventWaitCancelled:    "wait_cancelled",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// EventData carries the details of a cache event.
type EventData struct {
	Event Event
	// RefreshID identifies the computation for refresh events.
	RefreshID string
	// Duration is the computation time for RefreshSucceeded and
	// RefreshFailed, and the time spent waiting for WaitTimeout and
	// WaitCancelled.
	Duration time.Duration
	Err      error
}
