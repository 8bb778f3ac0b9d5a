package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDir returns the reattachd data directory, creating it if necessary.
//
// Resolution order:
// 1. REATTACHD_DATA_DIR env var (highest)
// 2. $XDG_DATA_HOME/reattachd or the platform equivalent
// 3. ~/.reattachd as a last resort
func DataDir() (string, error) {
	dir := os.Getenv("REATTACHD_DATA_DIR")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			home, herr := os.UserHomeDir()
			if herr != nil {
				return "", fmt.Errorf("resolve data directory: %w", err)
			}
			dir = filepath.Join(home, ".reattachd")
		} else {
			dir = filepath.Join(base, "reattachd")
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return dir, nil
}

// AuthFile returns the path of the device/setup-token store inside dataDir.
func AuthFile(dataDir string) string {
	return filepath.Join(dataDir, "auth.json")
}

// EndpointsFile returns the path of the push endpoint store inside dataDir.
func EndpointsFile(dataDir string) string {
	return filepath.Join(dataDir, "device_tokens.json")
}

// HistoryFile returns the path of the notification delivery log inside dataDir.
func HistoryFile(dataDir string) string {
	return filepath.Join(dataDir, "history.db")
}

// ConfigFile returns the path of the daemon config file inside dataDir.
func ConfigFile(dataDir string) string {
	return filepath.Join(dataDir, "config.json")
}
