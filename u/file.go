package u

import (
	"os"
	"path/filepath"
	"strings"
)

// FileExists returns true if path exists and is a regular file
func FileExists(path string) bool {
	st, err := os.Lstat(path)
	return err == nil && st.Mode().IsRegular()
}

// FileSize gets file size, -1 if file doesn't exist
func FileSize(path string) int64 {
	st, err := os.Lstat(path)
	if err == nil {
		return st.Size()
	}
	return -1
}

// ExpandTildeInPath replaces leading ~ with user's home directory.
// Path is returned unchanged if home directory is unknown.
func ExpandTildeInPath(s string) string {
	if s != "~" && !strings.HasPrefix(s, "~/") {
		return s
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return s
	}
	return filepath.Join(dir, s[1:])
}
