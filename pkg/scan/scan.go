// Package scan implements the cursor + glob iteration shared by SCAN,
// HSCAN and SSCAN.
//
// Glob compilation is delegated to gobwas/glob (the same library
// echovault/sugardb uses for Redis-style key-pattern matching) rather than
// hand-translating the pattern into a regexp. Its default grammar makes `*`
// match any run and `?` any single rune, and also gives `[...]` character
// classes, `{a,b}` alternatives and `\` escapes their special meaning, so
// `[`, `]`, `{`, `}`, `,` inside braces and `\` are not matched literally.
// A pattern the library cannot compile (such as a lone `[`) matches nothing.
package scan

import (
	"sort"

	"github.com/gobwas/glob"
)

// DefaultCount is used when the caller omits the count argument.
const DefaultCount = 10

// Page runs one cursor step over items, returning the elements matching
// pattern in [cursor, cursor+count) of the filtered, sorted view, plus the
// cursor to pass on the next call (0 once exhausted).
//
// items is filtered fresh on every call, so the iteration order is stable
// only to the extent the caller passes a stable snapshot; sorting here
// gives a deterministic order across calls against an unmutated
// collection, matching the "stable within a single scan sequence" quality
// the specification requires.
func Page(items []string, cursor int, pattern string, count int) (next int, page []string) {
	if cursor < 0 {
		cursor = 0
	}
	if count <= 0 {
		count = DefaultCount
	}
	if pattern == "" {
		pattern = "*"
	}

	filtered := filterSorted(items, pattern)

	if cursor > len(filtered) {
		cursor = len(filtered)
	}
	end := cursor + count
	if end > len(filtered) {
		end = len(filtered)
	}

	result := filtered[cursor:end]
	nextCursor := end
	if nextCursor >= len(filtered) {
		nextCursor = 0
	}
	return nextCursor, result
}

func filterSorted(items []string, pattern string) []string {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)

	g, err := glob.Compile(pattern)
	if err != nil {
		// An unparsable pattern matches nothing rather than faulting the
		// scan — callers still get a well-formed, empty page.
		return nil
	}

	var filtered []string
	for _, item := range sorted {
		if g.Match(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
