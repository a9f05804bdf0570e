// Package slugutil derives URL-safe skill slugs from human titles. The
// derivation is deterministic: equal titles always yield equal slugs.
package slugutil

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Derive converts a title to its canonical slug: transliterated to ASCII,
// lowercased, non-alphanumerics collapsed to single dashes. Titles with no
// usable characters (for example, all punctuation) derive to "".
func Derive(title string) string {
	return slug.Make(title)
}

// Deduplicate returns base if it is not taken, otherwise the first free
// "base-2", "base-3", ... candidate. taken holds the slugs already in use;
// lookups are case-exact because stored slugs are already canonical.
func Deduplicate(base string, taken []string) string {
	inUse := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		inUse[s] = struct{}{}
	}

	if _, ok := inUse[base]; !ok {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, ok := inUse[candidate]; !ok {
			return candidate
		}
	}
}
