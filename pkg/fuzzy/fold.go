package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes a name for comparison: surrounding space is trimmed,
// diacritics are stripped and the result is case folded, so "Café" and
// "CAFE" compare equal. Input that cannot be transformed is only case folded.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	// Transformers carry state, so every call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	return cases.Fold().String(s)
}
