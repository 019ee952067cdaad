package g2p

import "unicode"

// Kind classifies a token.
type Kind int

const (
	Word Kind = iota
	Number
	Punctuation
	Whitespace
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Number:
		return "number"
	case Punctuation:
		return "punctuation"
	case Whitespace:
		return "whitespace"
	}
	return "unknown"
}

// Token is one lexical unit of the input. Position is the rune offset of
// the first rune.
type Token struct {
	Text     string
	Kind     Kind
	Position int
}

// Tokenize splits text into words, numbers, punctuation runs and whitespace
// runs. Concatenating the Text of every token reproduces text.
func Tokenize(text string) []Token {
	rs := []rune(text)
	var tokens []Token

	for i := 0; i < len(rs); {
		var (
			end  int
			kind Kind
		)
		switch r := rs[i]; {
		case unicode.IsSpace(r):
			end, kind = scanWhile(rs, i, unicode.IsSpace), Whitespace
		case unicode.IsLetter(r) || (r == '\'' && letterAt(rs, i+1)):
			end, kind = scanWord(rs, i), Word
		case unicode.IsDigit(r):
			end, kind = scanNumber(rs, i)
		default:
			end, kind = scanPunctuation(rs, i), Punctuation
		}
		tokens = append(tokens, Token{Text: string(rs[i:end]), Kind: kind, Position: i})
		i = end
	}
	return tokens
}

func letterAt(rs []rune, i int) bool {
	return i >= 0 && i < len(rs) && unicode.IsLetter(rs[i])
}

func digitAt(rs []rune, i int) bool {
	return i >= 0 && i < len(rs) && unicode.IsDigit(rs[i])
}

func scanWhile(rs []rune, i int, pred func(rune) bool) int {
	for i < len(rs) && pred(rs[i]) {
		i++
	}
	return i
}

// scanWord consumes letters and digits plus apostrophes that are followed
// by a letter.
func scanWord(rs []rune, i int) int {
	i++
	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			i++
		case r == '\'' && letterAt(rs, i+1):
			i++
		default:
			return i
		}
	}
	return i
}

// scanNumber consumes a digit run with "," separators and one "." decimal
// point, each only when followed by a digit. A plain digit run glued to
// letters ("3rd", "mp3") is returned as a word instead.
func scanNumber(rs []rune, start int) (int, Kind) {
	i := start
	separated := false
	point := false
scan:
	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsDigit(r):
			i++
		case r == ',' && !point && digitAt(rs, i+1):
			separated = true
			i++
		case r == '.' && !point && digitAt(rs, i+1):
			point = true
			i++
		default:
			break scan
		}
	}
	if !separated && !point && letterAt(rs, i) {
		return scanWord(rs, start), Word
	}
	return i, Number
}

func scanPunctuation(rs []rune, i int) int {
	i++
	for i < len(rs) {
		r := rs[i]
		if unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.IsDigit(r) || (r == '\'' && letterAt(rs, i+1)) {
			return i
		}
		i++
	}
	return i
}
