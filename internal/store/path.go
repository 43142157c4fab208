// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// EnvDBPath overrides the database location when set.
	EnvDBPath = "LABCONFIG_DB"

	// markerFileName is the bootstrap marker file in the user's home
	// directory. When present its contents name the database path.
	markerFileName = ".labconfig_db"

	// dbFileName is the database file inside the application data dir.
	dbFileName = "settings.db"

	appDirName = "labconfig"
)

// ResolvePath picks the database file location, in priority order:
// an explicit override, the LABCONFIG_DB environment variable, the
// ~/.labconfig_db marker file, then the platform application data
// directory.
func ResolvePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if env := os.Getenv(EnvDBPath); env != "" {
		return env, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	if data, err := os.ReadFile(filepath.Join(home, markerFileName)); err == nil {
		if marked := strings.TrimSpace(string(data)); marked != "" {
			return marked, nil
		}
	}

	return filepath.Join(appDataDir(home), dbFileName), nil
}

// appDataDir returns the platform-specific application data directory.
func appDataDir(home string) string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appDirName)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName)
		}
	}
	return filepath.Join(home, "."+appDirName)
}
