package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// PadID brackets every encoded sequence.
const PadID int64 = 0

// ErrEmptyPath is returned when LoadVocabulary is called with an empty path.
var ErrEmptyPath = errors.New("vocabulary path must not be empty")

// Vocabulary is a closed character-to-id table. Characters outside the table
// are dropped on encode.
type Vocabulary struct {
	ids map[rune]int64
}

// NewVocabulary builds a vocabulary from a character-to-id map. Keys that are
// not exactly one character are ignored.
func NewVocabulary(vocab map[string]int64) *Vocabulary {
	v := &Vocabulary{ids: make(map[rune]int64, len(vocab))}
	for k, id := range vocab {
		r, size := utf8.DecodeRuneInString(k)
		if r == utf8.RuneError || size != len(k) {
			continue
		}
		v.ids[r] = id
	}
	return v
}

// LoadVocabulary reads a HuggingFace tokenizer.json (using model.vocab) or a
// flat JSON object of character to id.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	v, err := ParseVocabulary(data)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return v, nil
}

// ParseVocabulary decodes vocabulary JSON in either supported layout.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var doc struct {
		Model *struct {
			Vocab map[string]int64 `json:"vocab"`
		} `json:"model"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Model != nil && len(doc.Model.Vocab) > 0 {
		return NewVocabulary(doc.Model.Vocab), nil
	}

	var flat map[string]int64
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, err
	}
	if len(flat) == 0 {
		return nil, errors.New("vocabulary is empty")
	}
	return NewVocabulary(flat), nil
}

// Encode implements Tokenizer.
func (v *Vocabulary) Encode(phonemes string) ([]int64, error) {
	ids := make([]int64, 0, utf8.RuneCountInString(phonemes)+2)
	ids = append(ids, PadID)
	for _, r := range phonemes {
		if id, ok := v.ids[r]; ok {
			ids = append(ids, id)
		}
	}
	return append(ids, PadID), nil
}

// Contains reports whether r has an id.
func (v *Vocabulary) Contains(r rune) bool {
	_, ok := v.ids[r]
	return ok
}

// Len returns the number of characters in the table.
func (v *Vocabulary) Len() int { return len(v.ids) }
