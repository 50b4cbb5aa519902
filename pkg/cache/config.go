package cache

import (
	"os"
	"strconv"
	"time"
)

// Config controls the response cache.
type Config struct {
	Enabled bool          // Whether caching is active. Default true.
	TTL     time.Duration // How long a cached list stays valid. Default 30s.
	MaxSize int           // Maximum entries per cache. Default 1000.
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		TTL:     30 * time.Second,
		MaxSize: 1000,
	}
}

// ConfigFromEnv loads config from environment variables.
// BOOM_CACHE_ENABLED, BOOM_CACHE_TTL_SECONDS, BOOM_CACHE_MAX_SIZE
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BOOM_CACHE_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}

	if v := os.Getenv("BOOM_CACHE_TTL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.TTL = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("BOOM_CACHE_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSize = n
		}
	}

	return cfg
}
