package audit

import (
	"os"
	"strconv"
)

// Config controls audit behavior.
type Config struct {
	RetentionDays int  // Default 90
	Enabled       bool // Whether audit recording is active
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		Enabled:       true,
	}
}

// ConfigFromEnv loads config from environment variables.
// BOOM_AUDIT_RETENTION_DAYS, BOOM_AUDIT_ENABLED
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BOOM_AUDIT_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.RetentionDays = days
		}
	}

	if v := os.Getenv("BOOM_AUDIT_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}

	return cfg
}
