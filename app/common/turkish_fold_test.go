package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldTurkish(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Dotted capital I", "İstanbul", "istanbul"},
		{"Dotless capital I", "ISPARTA", "isparta"},
		{"Lowercase dotless i", "sükutı", "sukuti"},
		{"Cedilla and breve", "Çağrı", "cagri"},
		{"S cedilla and umlauts", "ŞÜKÜR ölçüsü", "sukur olcusu"},
		{"Circumflex vowels", "kâinat târîh sükûnet", "kainat tarih sukunet"},
		{"Decomposed input", "sükût", "sukut"},
		{"Plain ASCII unchanged", "hadith text", "hadith text"},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FoldTurkish(tc.input))
		})
	}
}

func TestFoldTurkishSymmetry(t *testing.T) {
	// Query and stored text must fold to the same form from either side.
	assert.True(t, strings.Contains(FoldTurkish("Sabır ve Sükut hayırdır"), FoldTurkish("sükut")))
	assert.True(t, strings.Contains(FoldTurkish("sabir ve sukut hayirdir"), FoldTurkish("SÜKUT")))
}
