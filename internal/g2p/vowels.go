package g2p

import "github.com/example/go-kokoro-tts/internal/g2p/charclass"

// magicVowel emits a long vowel followed by the consonant between it and the
// silent final e.
func magicVowel(w window, long string) (int, string) {
	return 3, long + consonantSound(window{word: w.word, i: w.i + 1})
}

func vowelA(w window) (int, string) {
	n, nn, nnn := w.next(), w.at(2), w.at(3)

	switch {
	case n == 'i' && nn == 'g' && nnn == 'h' && w.boundary(4):
		return 4, "eɪ"
	case (n == 'i' || n == 'y') && w.boundary(2):
		return 2, "eɪ"
	case n == 'u' || n == 'w':
		return 2, "ɔː"
	case n == 'l' && w.has(2) && isOneOf(nn, "fmstbdgkpvz"):
		return 2, "ɔː"
	case n == 'r' && w.has(2) && charclass.IsVowel(nn):
		return 1, "ɛə"
	case n == 'r' && nn == 'e' && w.boundary(3):
		return 3, "ɛə"
	case w.magicE():
		return magicVowel(w, "eɪ")
	case n == 'l' && w.has(2) && isOneOf(nn, "mnk"):
		return 1, "ɔː"
	}
	return 1, "æ"
}

func vowelE(w window) (int, string) {
	n, nn := w.next(), w.at(2)

	switch {
	case n == 'y' && nn == 'e' && w.i == 0 && len(w.word) == 3:
		return 3, "aɪ"
	case isOneOf(n, "eaiy"):
		return 2, "iː"
	case n == 'r' && w.has(2) && charclass.IsVowel(nn):
		return 1, "ɪə"
	case n == 'w':
		return 2, "juː"
	case w.last() && charclass.IsConsonant(w.prev()):
		return 1, ""
	case w.magicE():
		return magicVowel(w, "iː")
	}
	return 1, "ɛ"
}

func vowelI(w window) (int, string) {
	n, nn := w.next(), w.at(2)

	switch {
	case n == 'e' && w.boundary(2):
		return 2, "aɪ"
	case n == 'g' && nn == 'h':
		return 3, "aɪ"
	case n == 'r' && w.has(2) && charclass.IsVowel(nn):
		return 1, "aɪə"
	case n == 'r' && nn == 'e' && w.boundary(3):
		return 3, "aɪə"
	case w.magicE():
		return magicVowel(w, "aɪ")
	}
	return 1, "ɪ"
}

func vowelO(w window) (int, string) {
	n, nn := w.next(), w.at(2)

	switch {
	case n == 'o':
		return 2, "uː"
	case n == 'a' || n == 'e' || (n == 'w' && w.has(2)):
		return 2, "əʊ"
	case n == 'i' || n == 'y':
		return 2, "ɔɪ"
	case n == 'u':
		return 2, "aʊ"
	case w.magicE():
		return magicVowel(w, "əʊ")
	case n == 'r' && w.has(2) && charclass.IsVowel(nn):
		return 1, "ɔː"
	case n == 'r' && nn == 'e':
		return 3, "ɔː"
	case n == '\'':
		return 1, "əʊ"
	case n == 'w':
		return 2, "aʊ"
	case n == 'n' && w.has(2) && (nn == 'g' || nn == 'k'):
		return 1, "ɔː"
	}
	return 1, "ɒ"
}

func vowelU(w window) (int, string) {
	n, nn := w.next(), w.at(2)

	switch {
	case n == 'e' && w.boundary(2):
		return 2, "juː"
	case n == 'i':
		return 2, "juː"
	case n == 'r' && w.has(2) && charclass.IsVowel(nn):
		return 1, "ɜː"
	case n == 'r' && nn == 'e':
		return 3, "jʊə"
	case w.magicE():
		return magicVowel(w, "juː")
	case n == 'o' && w.has(2) && isOneOf(nn, "lrs"):
		return 2, "ʊ"
	}
	return 1, "ʌ"
}

func isOneOf(r rune, set string) bool {
	if r == 0 {
		return false
	}
	for _, c := range set {
		if r == c {
			return true
		}
	}
	return false
}
