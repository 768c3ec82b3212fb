package swrcache

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// DefaultTTL is how long computed data is served before it is cleared.
	DefaultTTL = 2 * time.Minute
	// DefaultMaxWait bounds how long Get blocks on an empty cache.
	DefaultMaxWait = 5 * time.Minute
)

// Config holds the cache timings. The zero value means defaults.
type Config struct {
	TTL     time.Duration `env:"SWRCACHE_TTL" env-default:"2m" env-description:"age after which cached data is cleared"`
	MaxWait time.Duration `env:"SWRCACHE_MAX_WAIT" env-default:"5m" env-description:"longest time Get waits for a first value"`
	// RefreshAhead, when positive and below TTL, refreshes present data in
	// the background once it is older than this.
	RefreshAhead time.Duration `env:"SWRCACHE_REFRESH_AHEAD" env-default:"0s" env-description:"age after which present data is refreshed in the background, 0 disables"`
}

// DefaultConfig returns the built-in timings.
func DefaultConfig() Config {
	return Config{
		TTL:     DefaultTTL,
		MaxWait: DefaultMaxWait,
	}
}

// LoadConfig reads Config from the environment, falling back to the
// defaults for unset variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading swrcache config: %w", err)
	}
	return cfg.normalize(), nil
}

func (c Config) normalize() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxWait <= 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.RefreshAhead < 0 || c.RefreshAhead >= c.TTL {
		c.RefreshAhead = 0
	}
	return c
}
