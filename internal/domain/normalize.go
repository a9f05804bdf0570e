package domain

import (
	"strings"
	"unicode"
)

// NormalizeTag prepares a tag name for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of inner whitespace into a single space
//
// Diacritics, hyphens, and apostrophes are preserved. Two names are the
// same tag exactly when their normalized forms are equal.
func NormalizeTag(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeTagSet normalizes every name, drops names that normalize to
// empty, and removes duplicates while preserving first-seen order. The
// result is suitable for create-if-absent tag reconciliation.
func NormalizeTagSet(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		n := NormalizeTag(name)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
