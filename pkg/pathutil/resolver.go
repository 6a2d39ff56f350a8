// Package pathutil provides path handling for the write history database.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HistoryPath picks the history database path: the flag value wins over the
// configured value. An empty result means history is disabled.
// A leading "~/" is expanded to the user's home directory.
func HistoryPath(flagValue, configured string) (string, error) {
	path := flagValue
	if path == "" {
		path = configured
	}
	if path == "" {
		return "", nil
	}
	return ExpandHome(path)
}

// ExpandHome expands a leading "~" or "~/" to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
