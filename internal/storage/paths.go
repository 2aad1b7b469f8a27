package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName = "bitchess"

	// DataDirEnv overrides the per-user data directory when set.
	DataDirEnv = "BITCHESS_DATA_DIR"
)

// DataDir returns the engine's data directory, creating it if needed.
// $BITCHESS_DATA_DIR wins when set; otherwise:
//   - macOS: ~/Library/Application Support/bitchess
//   - Linux: $XDG_DATA_HOME/bitchess or ~/.local/share/bitchess
//   - Windows: %APPDATA%\bitchess
func DataDir() (string, error) {
	dir := os.Getenv(DataDirEnv)
	if dir == "" {
		base, err := userDataHome()
		if err != nil {
			return "", fmt.Errorf("locating data directory: %w", err)
		}
		dir = filepath.Join(base, appName)
	}
	return ensureDir(dir)
}

// DatabaseDir returns the directory holding the settings database.
func DatabaseDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "settings.db"))
}

// userDataHome is the per-OS parent of application data directories.
func userDataHome() (string, error) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if base := os.Getenv(env); base != "" {
			return base, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return dir, nil
}
