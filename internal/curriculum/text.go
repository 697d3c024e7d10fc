package curriculum

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s case-folded with diacritics stripped, so "Óptativa I" and
// "optativa i" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}

// NameContains reports whether the folded course name contains any folded term.
func NameContains(name string, terms ...string) bool {
	folded := Fold(name)
	for _, term := range terms {
		if term = Fold(term); term != "" && strings.Contains(folded, term) {
			return true
		}
	}
	return false
}
