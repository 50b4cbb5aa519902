package scheduling

import (
	"os"
	"strconv"
	"time"
)

// Config controls the background generation worker.
type Config struct {
	Enabled    bool          // Whether the in-process timer is active. Default true.
	Interval   time.Duration // How often a generation pass runs. Default 24h.
	RunOnStart bool          // Whether to run a pass immediately on startup. Default true.
}

// DefaultConfig returns the default generation configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		Interval:   24 * time.Hour,
		RunOnStart: true,
	}
}

// ConfigFromEnv loads config from environment variables.
// BOOM_GENERATION_ENABLED, BOOM_GENERATION_INTERVAL_HOURS,
// BOOM_GENERATION_RUN_ON_START
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BOOM_GENERATION_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}

	if v := os.Getenv("BOOM_GENERATION_INTERVAL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Interval = time.Duration(n) * time.Hour
		}
	}

	if v := os.Getenv("BOOM_GENERATION_RUN_ON_START"); v != "" {
		cfg.RunOnStart, _ = strconv.ParseBool(v)
	}

	return cfg
}
