package lexicon

import "strings"

// Irregular is an entry of the irregular-word table. Respellings are plain
// English that must be resolved again; everything else is IPA.
type Irregular struct {
	Text       string
	Respelling bool
}

func ipa(s string) Irregular { return Irregular{Text: cleanIPA(s)} }

func respell(s string) Irregular { return Irregular{Text: s, Respelling: true} }

// cleanIPA drops dictionary-style slashes and syllable dots.
func cleanIPA(s string) string {
	return strings.NewReplacer("/", "", ".", "").Replace(s)
}

// DefaultIrregulars returns the built-in contraction, abbreviation and
// hard-word table.
func DefaultIrregulars() map[string]Irregular {
	return map[string]Irregular{
		// contractions
		"can't": ipa("/kænt/"), "don't": ipa("/doʊnt/"), "won't": ipa("/woʊnt/"),
		"isn't": ipa("/ɪsnət/"), "aren't": ipa("/ɑːrnt/"), "wasn't": ipa("/ˈwɑː.zənt/"),
		"weren't": ipa("/wɝːnt/"), "haven't": ipa("/ˈhævənt/"), "hasn't": ipa("/ˈhæz.ənt/"),
		"hadn't": ipa("/ˈhædənt/"), "couldn't": ipa("/ˈkʊd.ənt/"), "wouldn't": ipa("/ˈwʊdənt/"),
		"shouldn't": ipa("/ˈʃʊdənt/"), "didn't": ipa("/ˈdɪdənt/"), "doesn't": ipa("/ˈdʌzənt/"),
		"mightn't": ipa("/ˈmaɪ.tənt/"), "mustn't": ipa("/ˈmʌs.ənt/"), "needn't": ipa("/ˈniː.dənt/"),
		"shan't": ipa("/ʃænt/"), "ain't": ipa("/eɪnt/"), "won't've": ipa("/woʊnt əv/"),
		"i'm": ipa("/aɪm/"), "i've": ipa("/aɪv/"), "i'll": ipa("/aɪl/"), "i'd": ipa("/aɪd/"),
		"you're": ipa("/jʊr/"), "you've": ipa("/juːv/"), "you'll": ipa("/juːl/"), "you'd": ipa("/juːd/"),
		"we're": ipa("/wɚ/"), "we've": ipa("/wiːv/"), "we'll": ipa("/wiːl/"), "we'd": ipa("/wiːd/"),
		"they're": ipa("/ðɛr/"), "they've": ipa("/ðeɪv/"), "they'll": ipa("/ðeɪl/"), "they'd": ipa("/ðeɪd/"),
		"he's": ipa("/hiːz/"), "he'll": ipa("/hiːl/"), "he'd": ipa("/hiːd/"),
		"she's": ipa("/ʃiːz/"), "she'll": ipa("/ʃiːl/"), "she'd": ipa("/ʃiːd/"),
		"it's": ipa("/ɪts/"), "it'll": ipa("/ɪtəl/"), "it'd": ipa("/ɪtəd/"),
		"that's": ipa("/ðæts/"), "there's": ipa("/ðɛrz/"), "here's": ipa("/hɪrz/"),
		"what's": ipa("/wɑːts/"), "who's": ipa("/huːz/"), "where's": ipa("/wɛrz/"),
		"when's": ipa("/wɛnz/"), "why's": ipa("/waɪz/"), "how's": ipa("/haʊz/"),
		"let's": ipa("/lɛts/"), "o'clock": ipa("/əˈklɒk/"), "'em": ipa("/əm/"),
		"y'all": ipa("/jɔːl/"), "i'd've": ipa("/ˈaɪdəv/"), "could've": ipa("/ˈkʊdəv/"),
		"would've": ipa("/ˈwʊdəv/"), "should've": ipa("/ˈʃʊdəv/"),

		// abbreviations
		"mr": respell("mister"), "mrs": respell("missus"), "dr": respell("doctor"),
		"st": respell("saint"), "jr": respell("junior"), "sr": respell("senior"),
		"vs": respell("versus"), "etc": respell("et cetera"), "ai": respell("ay eye"),
		"tts": respell("tee tee ess"), "cpu": respell("see pee you"),

		// words the letter rules get wrong
		"every": ipa("/ˈɛvri/"), "for": ipa("/fɔːr/"), "further": ipa("/ˈfɝː.ðɚ/"),
		"forever": ipa("/fɔːˈrɛv.ɚ/"), "was": ipa("/wəz/"), "been": ipa("/bɪn/"),
		"clothes": ipa("/kloʊðz/"), "often": ipa("/ˈɔfən/"), "either": ipa("/ˈiːðər/"),
		"neither": ipa("/ˈniːðər/"), "route": ipa("/ruːt/"), "suite": ipa("/swiːt/"),
		"aisle": ipa("/aɪl/"), "buff": ipa("/bʌf/"), "cache": ipa("/kæʃ/"),
		"caught": ipa("/kɔːt/"), "chaos": ipa("/ˈkeɪ.ɑs/"), "colonel": ipa("/ˈkɜrnəl/"),
		"comfortable": ipa("/ˈkʌmftəbəl/"), "cupboard": ipa("/ˈkʌbərd/"), "debt": ipa("/dɛt/"),
		"design": ipa("/dɪˈzaɪn/"), "doubt": ipa("/daʊt/"), "eye": ipa("/aɪ/"),
		"genre": ipa("/ˈʒɑnrə/"), "hour": ipa("/aʊər/"), "iron": ipa("/aɪərn/"),
		"knight": ipa("/naɪt/"), "know": ipa("/noʊ/"), "leisure": ipa("/ˈliːʒər/"),
		"light": ipa("/laɪt/"), "lose": ipa("/luːz/"), "naive": ipa("/naɪˈiːv/"),
		"niche": ipa("/niːʃ/"), "once": ipa("/wʌns/"), "one": ipa("/wʌn/"),
		"pint": ipa("/paɪnt/"), "queue": ipa("/kjuː/"), "receipt": ipa("/rɪˈsiːt/"),
		"schedule": ipa("/ˈskɛdʒuːl/"), "scissors": ipa("/ˈsɪzərz/"), "sign": ipa("/saɪn/"),
		"subtle": ipa("/ˈsʌtəl/"), "sword": ipa("/sɔrd/"), "thyme": ipa("/taɪm/"),
		"tongue": ipa("/tʌŋ/"), "whole": ipa("/hoʊl/"), "world": ipa("/wɝːld/"),
		"yolk": ipa("/joʊk/"), "history": ipa("/ˈhɪs.tɚ.i/"), "concert": ipa("/ˈkɑːn.sɚt/"),
	}
}
