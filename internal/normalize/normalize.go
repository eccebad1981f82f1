// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import "strings"

// Tags cleans a user-entered tag list: whitespace is trimmed and collapsed,
// empty entries are dropped, and duplicates are removed case-insensitively
// keeping the first spelling seen. Order is otherwise preserved.
func Tags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := Whitespace(tag)
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Whitespace trims a string and collapses internal runs of whitespace to a
// single space.
func Whitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
