package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const appDir = "todowing"

// GetGlobalConfigDir returns the path to the global configuration directory (~/.todowing).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+appDir), nil
}

// localDataDir is the per-project directory checked before the global one.
var localDataDir = "." + appDir

// GetDataDir returns the directory holding the task list and crash logs.
// Resolution order (first match wins):
// 1. Explicit config via "storage.dir" (Viper/env/flag)
// 2. Local project directory: .todowing (if exists)
// 3. XDG_DATA_HOME/todowing (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.todowing
func GetDataDir() string {
	if path := viper.GetString("storage.dir"); path != "" {
		return path
	}

	if info, err := os.Stat(localDataDir); err == nil && info.IsDir() {
		return localDataDir
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, appDir)
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return localDataDir
	}
	return dir
}
