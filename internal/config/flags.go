package config

import "flag"

// parseFlags registers global flags on fs and parses args. Flags override
// every other source.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "State directory")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend (file|sqlite|memory)")
	fs.IntVar(&cfg.DebounceMS, "debounce", cfg.DebounceMS, "Save debounce window (ms)")
	fs.BoolVar(&cfg.AutoBackup, "backup", cfg.AutoBackup, "Copy previous payload to the backup slot before each write")
	fs.BoolVar(&cfg.AutoRecovery, "recovery", cfg.AutoRecovery, "Fall back to the backup slot on corrupt state")
	fs.BoolVar(&cfg.AutoCleanup, "cleanup", cfg.AutoCleanup, "Sweep aged completed tasks on load")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|logfmt|json)")

	return fs.Parse(args)
}
