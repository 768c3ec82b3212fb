package swrcache

import (
	"log/slog"
	"time"
)

// Option configures a Cache created by New.
type Option func(*settings)

type settings struct {
	cfg      Config
	observer Observer
	logger   *slog.Logger
}

// WithConfig replaces all timings at once, typically with the result of
// LoadConfig.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithTTL sets the age after which cached data is cleared.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.cfg.TTL = ttl
	}
}

// WithMaxWait bounds how long Get blocks when the cache is empty.
func WithMaxWait(d time.Duration) Option {
	return func(s *settings) {
		s.cfg.MaxWait = d
	}
}

// WithRefreshAhead makes Get start a background refresh once present data
// is older than d, while still returning the current data.
func WithRefreshAhead(d time.Duration) Option {
	return func(s *settings) {
		s.cfg.RefreshAhead = d
	}
}

// WithObserver attaches an Observer that receives cache events for the
// lifetime of the cache.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}
