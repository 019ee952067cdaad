package g2p

import "strings"

// applySuffixRules corrects the raw letter-rule output for common English
// inflections. The decision is keyed on the spelling of word; edits are made
// on whole runes of the phoneme string.
func applySuffixRules(phonemes, word string) string {
	w := strings.ToLower(word)
	p := []rune(phonemes)

	switch {
	case strings.HasSuffix(w, "ed"):
		p = suffixEd(p)
	case strings.HasSuffix(w, "ing"):
		p = suffixIng(p)
	case strings.HasSuffix(w, "ers"):
		p = replaceTail(p, "ɛɹs", "ərz")
	case strings.HasSuffix(w, "es"):
		p = suffixEs(p)
	case strings.HasSuffix(w, "est"):
		p = replaceTail(p, "ɛst", "ɪst")
	case strings.HasSuffix(w, "ly"):
		p = replaceTail(p, "laɪ", "li")
	case strings.HasSuffix(w, "tion"):
		p = replaceTail(p, "tɪɒn", "ʃən")
	case strings.HasSuffix(w, "sion"):
		if hasTail(p, "zɪɒn") {
			p = replaceTail(p, "zɪɒn", "ʒən")
		} else {
			p = replaceTail(p, "sɪɒn", "ʃən")
		}
	}

	if strings.HasSuffix(w, "e") && hasTail(p, "ɛ") {
		p = p[:len(p)-1]
	}
	return string(p)
}

const voicelessFinals = "pkfsʃθ"

// suffixEd handles the past tense: /ɪd/ after t or d, /t/ after a voiceless
// consonant, /d/ otherwise.
func suffixEd(p []rune) []rune {
	if !hasTail(p, "ɛd") || len(p) < 3 {
		return p
	}
	stem := p[:len(p)-2]
	last := stem[len(stem)-1]
	switch {
	case last == 't' || last == 'd':
		return appendString(stem, "ɪd")
	case strings.ContainsRune(voicelessFinals, last):
		return appendString(stem, "t")
	}
	return appendString(stem, "d")
}

// suffixIng assimilates the n of -ing to the velar nasal.
func suffixIng(p []rune) []rune {
	switch {
	case hasTail(p, "ɪnɡ"):
		return replaceTail(p, "ɪnɡ", "ɪŋ")
	case hasTail(p, "nɡ"):
		return replaceTail(p, "nɡ", "ŋ")
	}
	return p
}

// suffixEs inserts /ɪ/ after sibilants and devoices after voiceless stops.
func suffixEs(p []rune) []rune {
	if (!hasTail(p, "ɛz") && !hasTail(p, "ɛs")) || len(p) < 3 {
		return p
	}
	stem := p[:len(p)-2]
	switch last := stem[len(stem)-1]; {
	case strings.ContainsRune("szʃʒθ", last):
		return appendString(stem, "ɪz")
	case strings.ContainsRune("ptkf", last):
		return appendString(stem, "s")
	}
	return appendString(stem, "z")
}

func hasTail(p []rune, tail string) bool {
	t := []rune(tail)
	if len(t) > len(p) {
		return false
	}
	off := len(p) - len(t)
	for i, r := range t {
		if p[off+i] != r {
			return false
		}
	}
	return true
}

func replaceTail(p []rune, tail, with string) []rune {
	if !hasTail(p, tail) {
		return p
	}
	return appendString(p[:len(p)-len([]rune(tail))], with)
}

func appendString(p []rune, s string) []rune {
	out := make([]rune, len(p), len(p)+len(s))
	copy(out, p)
	return append(out, []rune(s)...)
}
