package text

import (
	"strings"
	"unicode"
)

// Sentences splits text on sentence-ending punctuation (., !, ?),
// keeping the terminator attached to its sentence.
// A '.' between two digits is a decimal point, not a boundary.
// Segments that are empty or punctuation-only after trimming are dropped.
func Sentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	emit := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if speakable(s) {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i, r := range runes {
		switch r {
		case '!', '?':
			emit(i + 1)
		case '.':
			if i > 0 && i+1 < len(runes) && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
				continue
			}
			emit(i + 1)
		}
	}

	// Trailing text after the last terminator (if any).
	if start < len(runes) {
		emit(len(runes))
	}

	return sentences
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// speakable reports whether s has at least one letter or digit.
func speakable(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
