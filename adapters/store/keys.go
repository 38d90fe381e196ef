package store

import (
	"slices"
	"strings"
)

func normalisePrefix(prefix string) string {
	return strings.TrimSuffix(prefix, ":")
}

func prefixedKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}

// sortedKeys keeps multi-key commands deterministic
func sortedKeys(entries map[string]string) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
