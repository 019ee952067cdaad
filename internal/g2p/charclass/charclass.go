// Package charclass holds the letter classes used by the English
// letter-to-phoneme rules. All predicates are case-insensitive and treat
// non-ASCII runes as neither vowel nor consonant.
package charclass

import "unicode"

// IsVowel reports whether r is one of a, e, i, o, u, y.
func IsVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// IsConsonant reports whether r is an ASCII letter that is not a vowel.
func IsConsonant(r rune) bool {
	l := unicode.ToLower(r)
	return l >= 'a' && l <= 'z' && !IsVowel(l)
}

// IsLiquidOrNasal reports whether r is one of l, m, n, r, w.
func IsLiquidOrNasal(r rune) bool {
	switch unicode.ToLower(r) {
	case 'l', 'm', 'n', 'r', 'w':
		return true
	}
	return false
}

// IsLetter reports whether r is an ASCII letter.
func IsLetter(r rune) bool {
	l := unicode.ToLower(r)
	return l >= 'a' && l <= 'z'
}
