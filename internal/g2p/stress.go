package g2p

import "strings"

const (
	primary   = 'ˈ'
	secondary = 'ˌ'
)

// Multi-rune vowel nuclei, matched before single vowels.
var (
	nuclei3 = map[string]bool{
		"aɪə": true, "aʊə": true, "ɔɪə": true,
	}
	nuclei2 = map[string]bool{
		"eɪ": true, "aɪ": true, "ɔɪ": true, "aʊ": true, "oʊ": true, "əʊ": true,
		"ɪə": true, "eə": true, "ɛə": true, "ʊə": true, "ɜː": true,
		"ɪr": true, "ɛr": true, "ɑr": true, "ɔr": true, "ʊr": true, "ʌr": true, "ər": true,
		"ɑ̃": true, "ɛ̃": true, "ɔ̃": true, "œ̃": true,
	}
	vowels1 = "aeiouæɛɪɑɒɔʊʌəɜɚɝɐɵɘʏøœɶ"
)

// Stress marks the first vowel nucleus of a phoneme string with a primary
// stress marker and every later nucleus with a secondary one. A string with
// no vowel gets a leading primary marker. Strings that already carry a
// marker are returned unchanged.
func Stress(phonemes string) string {
	if phonemes == "" || strings.ContainsAny(phonemes, "ˈˌ") {
		return phonemes
	}

	rs := []rune(phonemes)
	var b strings.Builder
	b.Grow(len(phonemes) + 8)
	marked := false

	mark := func() {
		if marked {
			b.WriteRune(secondary)
			return
		}
		b.WriteRune(primary)
		marked = true
	}

	for i := 0; i < len(rs); {
		if n := nucleusAt(rs, i); n > 0 {
			mark()
			b.WriteString(string(rs[i : i+n]))
			i += n
			continue
		}
		b.WriteRune(rs[i])
		i++
	}

	if !marked {
		return string(primary) + phonemes
	}
	return b.String()
}

// nucleusAt returns the rune length of the vowel nucleus starting at i,
// trying 3, 2 and 1 runes in turn, or 0 when rs[i] starts none.
func nucleusAt(rs []rune, i int) int {
	if i+3 <= len(rs) && nuclei3[string(rs[i:i+3])] {
		return 3
	}
	if i+2 <= len(rs) && nuclei2[string(rs[i:i+2])] {
		return 2
	}
	if strings.ContainsRune(vowels1, rs[i]) {
		return 1
	}
	return 0
}
