// Package numwords spells out numeric tokens as English words.
package numwords

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ErrMalformed is returned for input that is not a digit run with optional
// thousands separators and at most one decimal point.
var ErrMalformed = errors.New("malformed number")

var ones = [...]string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var scales = [...]string{
	"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion",
}

var digitWords = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
}

// Expand converts a numeric token such as "42", "1,000" or "3.14" into words.
// Commas are treated as thousands separators and dropped.
func Expand(s string) (string, error) {
	intPart, fracPart, hasPoint := strings.Cut(s, ".")
	if hasPoint && (fracPart == "" || strings.ContainsAny(fracPart, ".,")) {
		return "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	digits := strings.ReplaceAll(intPart, ",", "")
	if !allDigits(digits) || !allDigits(fracPart) || (digits == "" && !hasPoint) {
		return "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	var parts []string
	if digits != "" {
		n, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
		}
		parts = append(parts, Integer(n))
	}

	if hasPoint {
		parts = append(parts, "point")
		for _, r := range fracPart {
			parts = append(parts, digitWords[r-'0'])
		}
	}

	return strings.Join(parts, " "), nil
}

// Words is Expand with the error logged and the literal input returned.
func Words(s string) string {
	w, err := Expand(s)
	if err != nil {
		slog.Warn("number expansion failed", "input", s, "error", err)
		return s
	}
	return w
}

// Integer spells out n using short-scale group names.
func Integer(n uint64) string {
	if n == 0 {
		return "zero"
	}

	var groups []string
	for scale := 0; n > 0; scale++ {
		chunk := n % 1000
		n /= 1000
		if chunk == 0 {
			continue
		}
		w := underThousand(chunk)
		if scales[scale] != "" {
			w += " " + scales[scale]
		}
		groups = append(groups, w)
	}

	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return strings.Join(groups, " ")
}

func underThousand(n uint64) string {
	switch {
	case n == 0:
		return ""
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	}

	hundred := ones[n/100] + " hundred"
	if n%100 == 0 {
		return hundred
	}
	return hundred + " and " + underThousand(n%100)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
