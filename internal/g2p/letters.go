package g2p

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/example/go-kokoro-tts/internal/g2p/charclass"
)

// Step is one transducer move: how many runes were consumed and what was
// emitted for them.
type Step struct {
	Consumed int
	Phonemes string
}

var baseLetters = map[rune]string{
	'a': "æ", 'b': "b", 'c': "k", 'd': "d", 'e': "ɛ", 'f': "f", 'g': "ɡ",
	'h': "h", 'i': "ɪ", 'j': "dʒ", 'k': "k", 'l': "l", 'm': "m", 'n': "n",
	'o': "ɑ", 'p': "p", 'q': "k", 'r': "ɹ", 's': "s", 't': "t", 'u': "ʌ",
	'v': "v", 'w': "w", 'x': "ks", 'y': "j", 'z': "z",
}

// window is the rule view over a lower-cased word: the current rune with
// lookahead and lookback.
type window struct {
	word []rune
	i    int
}

// at returns the rune at offset k from the cursor, or 0 outside the word.
func (w window) at(k int) rune {
	j := w.i + k
	if j < 0 || j >= len(w.word) {
		return 0
	}
	return w.word[j]
}

func (w window) prev() rune { return w.at(-1) }

func (w window) next() rune { return w.at(1) }

// has reports whether offset k is inside the word.
func (w window) has(k int) bool {
	j := w.i + k
	return j >= 0 && j < len(w.word)
}

// boundary reports whether offset k is past the end of the word or on a
// non-letter.
func (w window) boundary(k int) bool {
	return !w.has(k) || !unicode.IsLetter(w.at(k))
}

func (w window) last() bool { return w.i == len(w.word)-1 }

// magicE reports a vowel + consonant + final "e" pattern at the cursor.
func (w window) magicE() bool {
	return w.has(2) && charclass.IsConsonant(w.next()) && w.at(2) == 'e' && w.boundary(3)
}

type rule func(w window) (int, string)

var rules map[rune]rule

func init() {
	rules = map[rune]rule{
		'a': vowelA, 'e': vowelE, 'i': vowelI, 'o': vowelO, 'u': vowelU,
		'c': consonantC, 'g': consonantG, 'h': consonantH, 't': consonantT,
		's': consonantS, 'y': letterY, 'q': consonantQ, 'w': consonantW,
		'k': consonantK, 'x': consonantX,
	}
}

// Transduce runs the letter rules over word and returns every step. The
// consumed counts are positive and sum to the rune length of word.
func Transduce(word string) []Step {
	w := window{word: []rune(strings.ToLower(word))}
	steps := make([]Step, 0, len(w.word))

	for w.i < len(w.word) {
		n, ph := apply(w, word)
		if n < 1 {
			n = 1
		}
		if rest := len(w.word) - w.i; n > rest {
			n = rest
		}
		steps = append(steps, Step{Consumed: n, Phonemes: ph})
		w.i += n
	}
	return steps
}

func apply(w window, word string) (int, string) {
	r := w.word[w.i]
	if fn, ok := rules[r]; ok {
		return fn(w)
	}
	if ph, ok := baseLetters[r]; ok {
		return 1, ph
	}
	slog.Warn("no letter rule", "rune", string(r), "word", word)
	return 1, string(r)
}

// consonantSound is the phoneme the consonant under the cursor contributes
// on its own, used after a long vowel in a magic-e pattern.
func consonantSound(w window) string {
	_, ph := apply(w, string(w.word))
	return ph
}

// LettersToPhonemes converts a word with no lexicon entry into a stressed
// phoneme string.
func LettersToPhonemes(word string) string {
	var b strings.Builder
	for _, s := range Transduce(word) {
		b.WriteString(s.Phonemes)
	}
	return Stress(applySuffixRules(b.String(), word))
}
