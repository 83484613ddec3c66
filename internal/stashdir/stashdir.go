// Package stashdir provides constants and utilities for the .todostash
// directory structure.
package stashdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the todostash home directory.
	Dir = ".todostash"

	// StateDirName is the state directory name (inside .todostash).
	StateDirName = "state"

	// ConfigFileName is the config file name (inside .todostash).
	ConfigFileName = "todostash.toml"
)

// HomePath returns the todostash home directory under the user's home,
// or a relative fallback when the home directory is unknown.
func HomePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// StatePath returns the default state directory.
func StatePath() string {
	return filepath.Join(HomePath(), StateDirName)
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(HomePath(), ConfigFileName)
}
