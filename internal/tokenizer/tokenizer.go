// Package tokenizer maps phoneme strings to the integer ids consumed by the
// acoustic model.
package tokenizer

// Tokenizer encodes a phoneme string into model token ids.
type Tokenizer interface {
	// Encode returns the ids for phonemes, bracketed by the pad id.
	Encode(phonemes string) ([]int64, error)
}
