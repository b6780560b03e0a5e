// Package filex holds small filesystem helpers for the client's local state.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppDirName is the directory under the user config dir that holds local state.
const AppDirName = "dropnshare"

// EnsureParentDir creates the directory that will contain path, if missing,
// with owner-only permissions. It returns the directory.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultDataPath returns <user config dir>/dropnshare/<name>. When the config
// dir cannot be determined the name is resolved against the working directory.
func DefaultDataPath(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(base, AppDirName, name)
}
