package search

import "strings"

// Normalize canonicalizes free text for indexing and querying: lowercase,
// trimmed, with every whitespace run collapsed to a single space. It is
// idempotent and must be the one routine used on both sides of the index,
// otherwise trigram lookups quietly stop lining up.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// stripAlphabet removes everything outside the indexable alphabet of
// lowercase letters, digits and spaces. Input is assumed normalized.
func stripAlphabet(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
