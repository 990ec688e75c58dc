// Package hobbytag normalizes user hobby tags and town text so they can be
// compared case- and accent-insensitively.
package hobbytag

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks.
// "Café" -> "cafe", "GOLF Course" -> "golf course".
func Fold(s string) string {
	// Transformers carry state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Key returns the comparison key for a tag: trimmed and folded.
func Key(tag string) string {
	return Fold(strings.TrimSpace(tag))
}

// Clean trims every tag, drops blanks and removes duplicates by Key,
// keeping the first spelling seen. The result is never nil.
func Clean(groups ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tags := range groups {
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			k := Fold(tag)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
