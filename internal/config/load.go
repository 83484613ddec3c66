package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the TOML config file name looked up in the user
// config directory and the working directory.
const ConfigFileName = "todostash.toml"

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.todostash/todostash.toml)
// 3. Project config file (todostash.toml or .todostash.toml in cwd)
// 4. Environment variables (TODOSTASH_*)
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile loads TOML config from the given file. Absent keys keep
// their current values.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// findUserConfigFile returns the user-level config path, or "".
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".todostash", ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// findProjectConfigFile returns the working-directory config path, or "".
func findProjectConfigFile() string {
	for _, name := range []string{ConfigFileName, "." + ConfigFileName} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// finalizeConfig expands paths and validates values.
func finalizeConfig(cfg *Config) error {
	cfg.StateDir = expandPath(cfg.StateDir)

	switch cfg.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown backend %q (expected file, sqlite, or memory)", cfg.Backend)
	}

	if cfg.QuotaCriticalPercent < cfg.QuotaWarningPercent {
		return fmt.Errorf("quota_critical_percent (%v) below quota_warning_percent (%v)",
			cfg.QuotaCriticalPercent, cfg.QuotaWarningPercent)
	}
	return nil
}
