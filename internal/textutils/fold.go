// Package textutils provides text normalization helpers.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveAccents strips combining marks: "Esporádico" becomes "Esporadico".
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FoldKey reduces s to lowercase ASCII letters and digits so that
// "Descrição", "descricao" and "DESCRICAO " compare equal.
func FoldKey(s string) string {
	s = strings.ToLower(RemoveAccents(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EqualFold compares two strings ignoring case, accents and punctuation.
func EqualFold(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}
