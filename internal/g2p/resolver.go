// Package g2p converts English text into an IPA phoneme string.
//
// Words are resolved through a fixed chain: context-sensitive heteronym
// rules, the pronouncing dictionary, the irregular-word table, and finally
// the letter-to-phoneme rules with suffix correction and stress marking.
package g2p

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/example/go-kokoro-tts/internal/lexicon"
	"github.com/example/go-kokoro-tts/internal/numwords"
)

// contextWords is how many neighbouring words on each side are visible to
// heteronym rules.
const contextWords = 5

// Resolver turns words and text into phonemes using a shared, read-only
// lexicon. It is safe for concurrent use.
type Resolver struct {
	lex *lexicon.Lexicon
}

// NewResolver returns a resolver backed by lex.
func NewResolver(lex *lexicon.Lexicon) *Resolver {
	return &Resolver{lex: lex}
}

// Word resolves a single word given the words around it. Every resolved
// word carries exactly one primary stress marker.
func (r *Resolver) Word(word string, before, after []string) string {
	if word == "" {
		return ""
	}
	return stressWords(r.resolve(word, before, after))
}

func (r *Resolver) resolve(word string, before, after []string) string {
	if ph, ok := r.lex.Heteronym(word, before, after); ok {
		return ph
	}
	if ph, ok := r.dictionary(word); ok {
		return ph
	}
	if e, ok := r.lex.Irregular(word); ok {
		if !e.Respelling {
			return e.Text
		}
		return r.respelling(e.Text)
	}
	return LettersToPhonemes(word)
}

// stressWords applies Stress to each space-separated part of s, so a
// multi-word respelling gets one primary marker per spoken word.
func stressWords(s string) string {
	if !strings.Contains(s, " ") {
		return Stress(s)
	}
	parts := strings.Fields(s)
	for i, p := range parts {
		parts[i] = Stress(p)
	}
	return strings.Join(parts, " ")
}

func (r *Resolver) dictionary(word string) (string, bool) {
	ph, err := r.lex.Pronounce(word)
	if err != nil {
		if !errors.Is(err, lexicon.ErrNoPronunciation) {
			slog.Warn("dictionary lookup failed", "word", word, "error", err)
		}
		return "", false
	}
	return ph, true
}

// respelling resolves plain-English replacement text word by word through
// the dictionary and then the letter rules.
func (r *Resolver) respelling(text string) string {
	parts := strings.Fields(text)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if ph, ok := r.dictionary(p); ok {
			out = append(out, ph)
			continue
		}
		out = append(out, LettersToPhonemes(p))
	}
	return strings.Join(out, " ")
}

// Phonemize converts text into a phoneme string. Numbers are spelled out,
// punctuation and whitespace are copied through and the result is trimmed.
func (r *Resolver) Phonemize(text string) string {
	tokens := Tokenize(text)

	var words []string
	wordIndex := make([]int, len(tokens))
	for i, t := range tokens {
		wordIndex[i] = -1
		if t.Kind == Word {
			wordIndex[i] = len(words)
			words = append(words, t.Text)
		}
	}

	var b strings.Builder
	for i, t := range tokens {
		switch t.Kind {
		case Word:
			k := wordIndex[i]
			before := words[max(0, k-contextWords):k]
			after := words[k+1 : min(len(words), k+1+contextWords)]
			b.WriteString(r.Word(t.Text, before, after))
		case Number:
			b.WriteString(r.number(t.Text))
		default:
			b.WriteString(t.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func (r *Resolver) number(digits string) string {
	spoken := strings.Fields(numwords.Words(digits))
	out := make([]string, 0, len(spoken))
	for _, w := range spoken {
		out = append(out, r.Word(w, nil, nil))
	}
	return strings.Join(out, " ")
}
