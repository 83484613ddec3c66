package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TODOSTASH_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOSTASH_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("TODOSTASH_BACKEND"); v != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("TODOSTASH_QUOTA_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.QuotaBytes = n
		}
	}
	if v := os.Getenv("TODOSTASH_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DebounceMS = n
		}
	}
	if v := os.Getenv("TODOSTASH_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("TODOSTASH_RETRY_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RetryDelayMS = n
		}
	}
	if v := os.Getenv("TODOSTASH_AUTO_BACKUP"); v != "" {
		cfg.AutoBackup = boolFromString(v)
	}
	if v := os.Getenv("TODOSTASH_AUTO_RECOVERY"); v != "" {
		cfg.AutoRecovery = boolFromString(v)
	}
	if v := os.Getenv("TODOSTASH_AUTO_CLEANUP"); v != "" {
		cfg.AutoCleanup = boolFromString(v)
	}
	if v := os.Getenv("TODOSTASH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODOSTASH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
