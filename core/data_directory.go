package core

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the application name used in data directory paths.
const AppName = "OfiqBackend"

// GetDataDirectory returns the platform-specific data directory path for the
// application. The OFIQ_DATA_DIR environment variable overrides the default.
//
// Default paths by platform:
//   - Windows: %APPDATA%/OfiqBackend
//   - Linux/macOS: ~/.ofiq_backend
//
// Does NOT create the directory - callers should use EnsureDataDirectory for that.
func GetDataDirectory() string {
	if override := os.Getenv("OFIQ_DATA_DIR"); override != "" {
		return override
	}

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return AppName
			}
			return filepath.Join(home, "AppData", "Roaming", AppName)
		}
		return filepath.Join(appData, AppName)
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home cannot be determined
			return ".ofiq_backend"
		}
		return filepath.Join(home, ".ofiq_backend")
	}
}

// GetDataFilePath returns the full path for a file within the data directory.
// Example: GetDataFilePath("history.db") -> "/home/user/.ofiq_backend/history.db"
func GetDataFilePath(filename string) string {
	return filepath.Join(GetDataDirectory(), filename)
}

// EnsureDataDirectory creates the data directory if it doesn't exist.
// Returns the directory path and any error encountered.
func EnsureDataDirectory() (string, error) {
	dir := GetDataDirectory()
	err := os.MkdirAll(dir, 0700) // Owner read/write/execute only
	if err != nil {
		return "", err
	}
	return dir, nil
}
