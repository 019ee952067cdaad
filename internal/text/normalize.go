// Package text prepares raw input for synthesis: normalization, removal of
// fenced code and sentence splitting.
package text

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// quotes folds typographic quotes and dashes NFKC leaves alone.
var quotes = strings.NewReplacer(
	"‘", "'", "’", "'", "‛", "'", "ʼ", "'",
	"“", "\"", "”", "\"", "‟", "\"",
	"–", "-", "—", "-",
)

// Normalize prepares raw input text for synthesis.
// It applies NFKC, folds curly quotes, trims surrounding whitespace,
// normalizes line endings to \n, and rejects empty or whitespace-only input.
func Normalize(s string) (string, error) {
	// Normalize line endings: CRLF → LF, then bare CR → LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = norm.NFKC.String(s)
	s = quotes.Replace(s)

	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyText
	}

	return s, nil
}
