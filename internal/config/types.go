// Package config handles configuration loading and defaults.
package config

// Default values.
const (
	DefaultStateDir             = "~/.todostash/state"
	DefaultBackend              = "file"
	DefaultQuotaBytes           = 5 * 1024 * 1024
	DefaultDebounceMS           = 500
	DefaultMaxRetries           = 3
	DefaultRetryDelayMS         = 250
	DefaultRetentionDays        = 30
	DefaultArchiveDays          = 90
	DefaultQuotaWarningPercent  = 80
	DefaultQuotaCriticalPercent = 95
)

// Config holds the full configuration for todostash.
type Config struct {
	// Storage
	StateDir   string `toml:"state_dir"`
	Backend    string `toml:"backend"` // file, sqlite, or memory
	QuotaBytes int64  `toml:"quota_bytes"`

	// Write path. Zero values for the numeric knobs mean "use the
	// built-in default", not "disable"; MaxRetries counts total attempts.
	DebounceMS   int  `toml:"debounce_ms"`
	MaxRetries   int  `toml:"max_retries"`
	RetryDelayMS int  `toml:"retry_delay_ms"`
	AutoBackup   bool `toml:"auto_backup"`

	// Read path
	AutoRecovery bool `toml:"auto_recovery"`

	// Cleanup
	AutoCleanup   bool `toml:"auto_cleanup"`
	RetentionDays int  `toml:"retention_days"`
	ArchiveDays   int  `toml:"archive_days"`

	// Quota thresholds (percent of quota)
	QuotaWarningPercent  float64 `toml:"quota_warning_percent"`
	QuotaCriticalPercent float64 `toml:"quota_critical_percent"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// setDefaults fills cfg with default values.
func setDefaults(cfg *Config) {
	cfg.StateDir = DefaultStateDir
	cfg.Backend = DefaultBackend
	cfg.QuotaBytes = DefaultQuotaBytes
	cfg.DebounceMS = DefaultDebounceMS
	cfg.MaxRetries = DefaultMaxRetries
	cfg.RetryDelayMS = DefaultRetryDelayMS
	cfg.AutoBackup = true
	cfg.AutoRecovery = true
	cfg.AutoCleanup = false
	cfg.RetentionDays = DefaultRetentionDays
	cfg.ArchiveDays = DefaultArchiveDays
	cfg.QuotaWarningPercent = DefaultQuotaWarningPercent
	cfg.QuotaCriticalPercent = DefaultQuotaCriticalPercent
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
}
