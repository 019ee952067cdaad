package lexicon

import "strings"

// Stress markers used in IPA output.
const (
	PrimaryStress   = "ˈ"
	SecondaryStress = "ˌ"
)

var arpabetIPA = map[string]string{
	"AA": "ɑː", "AE": "æ", "AH": "ə", "AO": "ɔː",
	"AW": "aʊ", "AY": "aɪ", "B": "b", "CH": "tʃ",
	"D": "d", "DH": "ð", "EH": "ɛ", "ER": "ɜːr",
	"EY": "eɪ", "F": "f", "G": "ɡ", "HH": "h",
	"IH": "ɪ", "IY": "iː", "JH": "dʒ", "K": "k",
	"L": "l", "M": "m", "N": "n", "NG": "ŋ",
	"OW": "oʊ", "OY": "ɔɪ", "P": "p", "R": "ɹ",
	"S": "s", "SH": "ʃ", "T": "t", "TH": "θ",
	"UH": "ʊ", "UW": "uː", "V": "v", "W": "w",
	"Y": "j", "Z": "z", "ZH": "ʒ", "SIL": "",
}

// ArpabetToIPA converts one ARPAbet symbol such as "EY1" to IPA. A trailing
// stress digit 1 or 2 becomes a primary or secondary marker in front of the
// phone. Unknown symbols map to the empty string.
func ArpabetToIPA(symbol string) string {
	base := strings.ToUpper(symbol)
	var stress string
	if n := len(base); n > 0 {
		switch base[n-1] {
		case '1':
			stress, base = PrimaryStress, base[:n-1]
		case '2':
			stress, base = SecondaryStress, base[:n-1]
		case '0':
			base = base[:n-1]
		}
	}

	ipa, ok := arpabetIPA[base]
	if !ok {
		return ""
	}
	return stress + ipa
}

// PronunciationToIPA joins the IPA rendering of every symbol.
func PronunciationToIPA(symbols []string) string {
	var b strings.Builder
	for _, s := range symbols {
		b.WriteString(ArpabetToIPA(s))
	}
	return b.String()
}
