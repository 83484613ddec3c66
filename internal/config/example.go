package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todostash configuration file
# Values can be overridden by TODOSTASH_* environment variables or CLI flags

# State directory (supports ~ expansion)
state_dir = "~/.todostash/state"

# Storage backend: file, sqlite, or memory
backend = "file"

# Storage quota in bytes (estimated, localStorage-like default)
quota_bytes = 5242880

# Save debounce window in milliseconds: rapid changes within this window
# coalesce into a single write
debounce_ms = 500

# Write retry policy. max_retries counts total attempts per write; zero
# falls back to the built-in default (3), it does not disable retries.
max_retries = 3
retry_delay_ms = 250

# Copy the previous payload to the backup slot before each write
auto_backup = true

# Fall back to the backup slot when the primary payload is corrupt
auto_recovery = true

# Sweep aged completed tasks on load
auto_cleanup = false

# Remove completed tasks older than this many days (sweep)
retention_days = 30

# Archive completed tasks older than this many days instead of deleting
archive_days = 90

# Quota thresholds, percent of quota
quota_warning_percent = 80.0
quota_critical_percent = 95.0

# Logging
log_level = "info"       # debug, info, warn, error
log_format = "text"      # text, logfmt, json
log_timestamps = false
log_caller = false
`
}
