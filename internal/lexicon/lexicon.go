// Package lexicon holds the linguistic resources used by the G2P resolver:
// the pronouncing dictionary, the heteronym table and the irregular-word
// table. A Lexicon is built once at startup and is read-only afterwards.
package lexicon

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPronunciation is returned when a word has no dictionary entry.
var ErrNoPronunciation = errors.New("no pronunciation")

// Lexicon bundles the lookup tables. Keys are lower-case.
type Lexicon struct {
	dict       *Dictionary
	heteronyms map[string][]HeteronymRule
	irregulars map[string]Irregular
}

// New builds a lexicon around dict using the built-in heteronym and
// irregular tables. dict may be nil.
func New(dict *Dictionary) *Lexicon {
	return &Lexicon{
		dict:       dict,
		heteronyms: DefaultHeteronyms(),
		irregulars: DefaultIrregulars(),
	}
}

// Load reads the dictionary at path and returns a lexicon built on it.
func Load(path string) (*Lexicon, error) {
	dict, err := LoadDictionary(path)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return New(dict), nil
}

// Dictionary returns the underlying dictionary.
func (l *Lexicon) Dictionary() *Dictionary { return l.dict }

// Heteronym resolves word against its context rules. The boolean is false
// when word is not a registered heteronym.
func (l *Lexicon) Heteronym(word string, before, after []string) (string, bool) {
	rules, ok := l.heteronyms[strings.ToLower(word)]
	if !ok || len(rules) == 0 {
		return "", false
	}
	for _, r := range rules {
		if r.Matches(before, after) {
			return r.Phonemes, true
		}
	}
	return rules[len(rules)-1].Phonemes, true
}

// Pronounce returns the IPA rendering of the first dictionary pronunciation
// of word.
func (l *Lexicon) Pronounce(word string) (string, error) {
	prons, ok := l.dict.Lookup(word)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoPronunciation, word)
	}
	return PronunciationToIPA(prons[0]), nil
}

// Irregular returns the irregular-table entry for word.
func (l *Lexicon) Irregular(word string) (Irregular, bool) {
	e, ok := l.irregulars[strings.ToLower(word)]
	return e, ok
}

// Stats reports table sizes.
func (l *Lexicon) Stats() (words, heteronyms, irregulars int) {
	return l.dict.Len(), len(l.heteronyms), len(l.irregulars)
}
