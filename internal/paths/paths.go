// Package paths locates the CLI's local state.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// HomeEnvKey overrides the state directory, mostly for tests and
	// running several accounts side by side.
	HomeEnvKey = "MOYO_HOME"

	appName = "moyo"
	dbName  = "moyo.db"
)

// Dir returns $MOYO_HOME, else $XDG_CONFIG_HOME/moyo, else ~/.config/moyo.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnvKey); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// EnsureDir creates Dir with owner-only permissions, since it holds tokens.
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}

// DB returns the sqlite session cache path.
func DB() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbName), nil
}
