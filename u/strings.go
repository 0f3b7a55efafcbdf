package u

import (
	"fmt"
	"sort"
	"strings"
)

// FormatSize formats a number in a human-readable form e.g. 1.24 kB
func FormatSize(n int64) string {
	sizes := []int64{1024 * 1024 * 1024, 1024 * 1024, 1024}
	suffixes := []string{"GB", "MB", "kB"}
	for i, size := range sizes {
		if n >= size {
			s := fmt.Sprintf("%.2f", float64(n)/float64(size))
			return strings.TrimSuffix(s, ".00") + " " + suffixes[i]
		}
	}
	return fmt.Sprintf("%d bytes", n)
}

// ParseAssignments parses "key=value" strings into a map.
// Keys are trimmed, values are kept as-is so "name=" sets an empty value.
// Later assignments of the same key win.
func ParseAssignments(a []string) (map[string]string, error) {
	m := make(map[string]string, len(a))
	for _, s := range a {
		key, val, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment '%s', expected key=value", s)
		}
		m[key] = val
	}
	return m, nil
}

// SortedKeys returns keys of m in sorted order
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
