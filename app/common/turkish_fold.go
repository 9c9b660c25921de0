package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Turkish-specific letters folded to their ASCII base after lowercasing.
// Decomposed inputs are handled by the combining-mark strip below.
var FoldableLettersList = []string{
	"ç", "c", "ğ", "g", "ş", "s", "ü", "u",
	"ö", "o", "ı", "i", "â", "a", "î", "i", "û", "u",
}

var turkishReplacer = strings.NewReplacer(FoldableLettersList...)

// FoldTurkish lowercases s with Turkish casing rules (İ→i, I→ı), folds the
// Turkish letters to ASCII and strips any remaining combining diacritics.
// Hadith text and user queries both go through this before the substring
// test, so "İstanbul" matches "istanbul" and "sükut" matches "sukut".
func FoldTurkish(s string) string {
	s = strings.ToLowerSpecial(unicode.TurkishCase, s)
	s = turkishReplacer.Replace(s)
	s = norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}
