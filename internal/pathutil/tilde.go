// Package pathutil expands leading "~" in configured paths the way the
// profile loader does, since TOML files are hand-edited and commonly use
// shorthand home-directory paths.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde rewrites a leading "~" or "~/" into the current user's home
// directory. Paths that don't start with "~" are returned unchanged.
func ExpandTilde(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}
