package g2p

import "github.com/example/go-kokoro-tts/internal/g2p/charclass"

func consonantC(w window) (int, string) {
	if isOneOf(w.next(), "eiy") {
		return 1, "s"
	}
	return 1, "k"
}

func consonantG(w window) (int, string) {
	n, nn := w.next(), w.at(2)

	if n == 'h' {
		switch {
		case !w.has(2), isOneOf(nn, "tsu"):
			return 2, ""
		case isOneOf(nn, "aeio"):
			return 2, "f"
		}
		return 2, ""
	}
	if isOneOf(n, "eiy") && w.prev() != 'g' {
		return 1, "dʒ"
	}
	return 1, "ɡ"
}

func consonantH(w window) (int, string) {
	p, n := w.prev(), w.next()

	switch {
	case w.i == 0 && charclass.IsVowel(n):
		return 1, "h"
	case w.i > 0 && charclass.IsVowel(p) && charclass.IsVowel(n):
		return 1, "h"
	case w.i > 0 && charclass.IsConsonant(p):
		return 1, ""
	}
	return 1, "h"
}

func consonantT(w window) (int, string) {
	p, n, nn, nnn := w.prev(), w.next(), w.at(2), w.at(3)

	switch {
	case n == 'h':
		voiced := w.has(2) && charclass.IsVowel(nn) &&
			(charclass.IsVowel(p) || charclass.IsLiquidOrNasal(p))
		if voiced {
			return 2, "ð"
		}
		return 2, "θ"
	case n == 'i' && nn == 'o' && w.has(3) && nnn == 'n':
		switch {
		case p == 's' || p == 'l' || p == 'n':
			return 4, "ʒən"
		case charclass.IsConsonant(p):
			return 4, "ʃən"
		}
		return 1, "t"
	case n == 'c' && nn == 'h':
		return 3, "tʃ"
	case n == 't' && nn == 'l' && nnn == 'e' && w.boundary(4):
		return 4, "təl"
	}
	return 1, "t"
}

func consonantS(w window) (int, string) {
	p, n, nn, nnn := w.prev(), w.next(), w.at(2), w.at(3)

	var voiced bool
	if w.has(1) {
		voiced = charclass.IsVowel(p) && charclass.IsVowel(n)
	} else {
		voiced = charclass.IsVowel(p)
	}

	switch {
	case voiced:
		return 1, "z"
	case n == 'h':
		return 2, "ʃ"
	case n == 'i' && nn == 'o' && w.has(3) && nnn == 'n':
		return 4, "ʒən"
	case n == 's':
		return 2, "s"
	}
	return 1, "s"
}

// letterY is a consonant at the start of a word and a vowel elsewhere.
func letterY(w window) (int, string) {
	switch {
	case w.i == 0 && w.has(1):
		return 1, "j"
	case w.last():
		if charclass.IsVowel(w.prev()) {
			return 1, "i"
		}
		return 1, "aɪ"
	}
	return 1, "i"
}

func consonantQ(w window) (int, string) {
	if w.next() == 'u' {
		return 2, "kw"
	}
	return 1, "k"
}

func consonantW(w window) (int, string) {
	if w.next() == 'h' {
		return 2, "ʍ"
	}
	return 1, "w"
}

func consonantK(w window) (int, string) {
	if w.i == 0 && w.next() == 'n' {
		return 1, ""
	}
	return 1, "k"
}

func consonantX(window) (int, string) { return 1, "ks" }
