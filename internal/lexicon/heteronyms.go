package lexicon

import "strings"

// Where selects which side of the target word a heteronym rule inspects.
type Where int

const (
	Anywhere Where = iota
	Before
	After
)

// HeteronymRule selects Phonemes when any keyword occurs in the chosen part
// of the context window. A rule with no keywords always matches.
type HeteronymRule struct {
	Keywords []string
	Where    Where
	Phonemes string
}

// Matches reports whether the rule fires for the given lower-cased context.
func (r HeteronymRule) Matches(before, after []string) bool {
	if len(r.Keywords) == 0 {
		return true
	}
	switch r.Where {
	case Before:
		return r.anyKeyword(before)
	case After:
		return r.anyKeyword(after)
	default:
		return r.anyKeyword(before) || r.anyKeyword(after)
	}
}

func (r HeteronymRule) anyKeyword(words []string) bool {
	for _, w := range words {
		w = strings.ToLower(w)
		for _, k := range r.Keywords {
			if w == k {
				return true
			}
		}
	}
	return false
}

func before(ph string, kw ...string) HeteronymRule {
	return HeteronymRule{Keywords: kw, Where: Before, Phonemes: ph}
}

func after(ph string, kw ...string) HeteronymRule {
	return HeteronymRule{Keywords: kw, Where: After, Phonemes: ph}
}

func anywhere(ph string, kw ...string) HeteronymRule {
	return HeteronymRule{Keywords: kw, Where: Anywhere, Phonemes: ph}
}

func otherwise(ph string) HeteronymRule {
	return HeteronymRule{Phonemes: ph}
}

// DefaultHeteronyms returns the built-in heteronym table. Each rule list
// ends with an unconditional default.
func DefaultHeteronyms() map[string][]HeteronymRule {
	return map[string][]HeteronymRule{
		"read": {
			anywhere("red", "past", "book", "novel", "story", "yesterday", "finished", "already", "just", "had", "has", "have"),
			anywhere("riːd", "looking", "studying", "examining", "now", "currently", "reading", "can", "please", "let", "me"),
			otherwise("riːd"),
		},
		"wind": {
			before("wɪnd", "blow", "breeze", "gust", "storm", "hurricane", "air", "weather", "north", "south", "east", "west", "strong", "gentle", "cold", "hot", "fierce", "light", "fresh", "prevailing"),
			after("waɪnd", "clock", "watch", "bobbin", "spool", "tape", "up", "down", "tight", "loose", "around", "the", "it", "him", "her", "them"),
			otherwise("wɪnd"),
		},
		"winds": {
			before("wɪndz", "windy", "blowing", "blustery", "howling", "whistling", "prevailing", "trade", "solar", "westerly", "easterly"),
			after("waɪndz", "clock", "watch", "bobbin", "spool", "tape"),
			otherwise("wɪndz"),
		},
		"bass": {
			before("beɪs", "singer", "voice", "soprano", "alto", "tenor", "choir", "sang", "sings", "frequency", "sound", "audio", "amplifier", "guitar", "amplification"),
			anywhere("bæs", "fish", "fishing", "lake", "river", "lure", "instrument", "bassoon", "bassoonist"),
			otherwise("bæs"),
		},
		"live": {
			before("lɪv", "reside", "dwelling", "home", "inhabiting", "living", "where", "currently", "dwells", "dwelt"),
			after("laɪv", "broadcast", "performance", "show", "concert", "streaming", "event", "tv", "television", "video", "feed"),
			otherwise("lɪv"),
		},
		"lives": {
			before("lɪvz", "reside", "dwelling", "home", "inhabiting", "living", "where", "currently", "dwells", "dwelt"),
			after("laɪvz", "broadcast", "performance", "show", "concert", "streaming", "event", "tv", "television"),
			otherwise("lɪvz"),
		},
		"tear": {
			before("tɛr", "rip", "shred", "tore", "torn", "scratch", "paper", "fabric", "cloth", "material"),
			before("tɪr", "cry", "weep", "sad", "eye", "drop", "shed", "shedding", "emotional", "tearful", "water"),
			otherwise("tɪr"),
		},
		"tears": {
			before("tɛrz", "rip", "shred", "tore", "torn", "scratch"),
			before("tɪrz", "cry", "weep", "sad", "eye", "drop", "shed", "shedding"),
			otherwise("tɪrz"),
		},
		"bow": {
			before("baʊ", "front", "down", "curtsy", "respect", "ship", "vessel", "boat", "nautical", "sail", "sailing"),
			before("boʊ", "arrow", "violin", "string", "stern", "weapon", "archery", "archer", "shoot"),
			otherwise("boʊ"),
		},
		"row": {
			before("raʊ", "argument", "fight", "quarrel", "dispute", "verbal", "angry", "heated", "shouting"),
			before("roʊ", "boat", "paddle", "oar", "river", "rowing", "crew", "regatta", "water"),
			otherwise("roʊ"),
		},
		"lead": {
			before("led", "metal", "pencil", "weight", "pipe", "leaded", "poisoning"),
			before("liːd", "guided", "followed", "directed", "managed", "guide", "guiding", "direction", "path", "example", "first", "primary", "main", "chief", "will", "to"),
			otherwise("liːd"),
		},
		"leads": {
			before("ledz", "metal", "pencil", "weight"),
			otherwise("liːdz"),
		},
		"close": {
			before("kloʊs", "near", "proximity", "adjacent", "very", "quite", "relatively", "approximately", "distance", "so", "too"),
			before("kloʊz", "shut", "door", "window", "lid", "end", "business", "deal", "transaction", "company", "please"),
			otherwise("kloʊz"),
		},
		"content": {
			before("kənˈtɛnt", "satisfied", "pleased", "happy", "glad", "contented", "joyful", "delighted", "feel", "feels", "felt"),
			before("ˈkɑːntɛnt", "material", "substance", "inside", "table", "of", "contents", "web", "digital", "written"),
			otherwise("ˈkɑːntɛnt"),
		},
		"record": {
			before("ˈrɛkərd", "document", "tape", "disc", "album", "music", "vinyl", "cd", "audio", "video", "play", "collection", "world", "new"),
			before("rɪˈkɔːrd", "break", "achieve", "create", "make", "generate", "capture", "to", "will", "can"),
			otherwise("ˈrɛkərd"),
		},
		"records": {
			before("ˈrɛkərdz", "document", "tape", "disc", "album", "music", "vinyl", "cd", "audio", "video"),
			before("rɪˈkɔːrdz", "it", "she", "he", "break", "achieve", "set", "history", "create", "make", "generate"),
			otherwise("ˈrɛkərdz"),
		},
		"produce": {
			before("ˈprɑːdus", "fruit", "vegetable", "farm", "agriculture", "fresh", "organic", "market", "local", "harvest"),
			otherwise("prəˈdus"),
		},
		"present": {
			before("ˈprɛzənt", "gift", "package", "wrapped", "birthday", "christmas", "holiday", "surprise", "opening", "a"),
			before("prɪˈzɛnt", "to", "will", "we", "they", "i"),
			otherwise("ˈprɛzənt"),
		},
		"object": {
			before("əbˈdʒɛkt", "oppose", "disagree", "argue", "protest", "complain", "i", "we", "they", "to"),
			otherwise("ˈɑːbdʒɛkt"),
		},
		"contract": {
			before("kənˈtrækt", "shrink", "tighten", "muscle", "muscles", "wrinkle", "reduce", "physiology"),
			otherwise("ˈkɑːntrækt"),
		},
		"desert": {
			before("dɪˈzɜːrt", "abandon", "leave", "forsake", "defect", "deserter", "military", "duty", "responsibility", "to", "not"),
			otherwise("ˈdɛzərt"),
		},
		"deserted": {
			otherwise("dɪˈzɜːrtɪd"),
		},
		"minute": {
			before("maɪˈnut", "tiny", "small", "infinitesimal", "wee", "microscopic", "imperceptible"),
			otherwise("ˈmɪnɪt"),
		},
		"invalid": {
			before("ˈɪnvəlɪd", "patient", "hospital", "sick", "wheelchair", "disabled", "infirm", "care", "an"),
			otherwise("ɪnˈvælɪd"),
		},
		"use": {
			before("juːs", "purpose", "reason", "benefit", "utility", "usage", "no", "the", "of"),
			otherwise("juːz"),
		},
		"used": {
			after("juːst", "to"),
			otherwise("juːzd"),
		},
		"abuse": {
			before("əˈbjuːs", "verbal", "physical", "drug", "substance", "child", "the", "of"),
			otherwise("əˈbjuːz"),
		},
		"conduct": {
			before("ˈkɑːndʌkt", "behavior", "manner", "ethics", "professional", "personal", "code", "good", "bad"),
			otherwise("kənˈdʌkt"),
		},
		"perfect": {
			before("pərˈfɛkt", "complete", "finish", "practice", "to"),
			otherwise("ˈpɜːrfɛkt"),
		},
		"combine": {
			before("ˈkɑːmbaɪn", "machinery", "harvester", "farm", "agriculture", "harvest", "field", "crop", "a", "the"),
			otherwise("kəmˈbaɪn"),
		},
		"compact": {
			before("kəmˈpækt", "agreement", "deal", "pact", "treaty", "formal", "written"),
			otherwise("ˈkɑːmpækt"),
		},
		"project": {
			before("prəˈdʒɛkt", "extend", "jut", "protrude", "cast", "projection", "screen", "display", "to", "will"),
			otherwise("ˈprɑːdʒɛkt"),
		},
		"subject": {
			before("səbˈdʒɛkt", "under", "beneath", "subordinate", "expose", "subjection", "to"),
			otherwise("ˈsʌbdʒɛkt"),
		},
		"conflict": {
			before("kənˈflɪkt", "disagree", "clash", "oppose", "contradict", "conflicting", "values", "interests", "may", "might"),
			otherwise("ˈkɑːnflɪkt"),
		},
		"permit": {
			before("ˈpɜːrmɪt", "license", "ticket", "authorization", "document", "building", "parking", "a", "the"),
			otherwise("pərˈmɪt"),
		},
		"increase": {
			before("ˈɪnkriːs", "rise", "growth", "gain", "boost", "increment", "amount", "an", "the"),
			otherwise("ɪnˈkriːs"),
		},
		"decrease": {
			before("ˈdiːkriːs", "fall", "drop", "decline", "reduction", "amount", "rate", "a", "the"),
			otherwise("dɪˈkriːs"),
		},
		"insult": {
			before("ˈɪnsʌlt", "comment", "remark", "utterance", "an", "the"),
			otherwise("ɪnˈsʌlt"),
		},
		"progress": {
			before("prəˈɡrɛs", "move", "go", "walk", "travel", "progressing", "slowly", "steadily", "to", "will"),
			otherwise("ˈprɑːɡrɛs"),
		},
		"refuse": {
			before("ˈrɛfjuːs", "garbage", "trash", "waste", "rubbish", "disposal", "collection"),
			otherwise("rɪˈfjuːz"),
		},
		"separate": {
			before("ˈsɛpəreɪt", "divide", "split", "detach", "disconnect", "to", "will", "carefully"),
			otherwise("ˈsɛpərət"),
		},
		"estimate": {
			before("ˈɛstəmeɪt", "to", "will", "we", "they", "i"),
			otherwise("ˈɛstəmət"),
		},
		"resume": {
			before("ˈrɛzəmeɪ", "cv", "curriculum", "vitae", "job", "application", "professional", "document", "my", "your"),
			otherwise("rɪˈzuːm"),
		},
		"closed": {
			before("kloʊst", "near", "proximity", "adjacent", "very", "quite"),
			otherwise("kloʊzd"),
		},
		"produces": {
			before("ˈprɑːdusɪz", "fruit", "vegetable", "farm", "agriculture", "fresh", "organic"),
			otherwise("prəˈdusɪz"),
		},
		"presented": {
			before("ˈprɛzəntɪd", "gift", "package", "wrapped", "birthday", "christmas"),
			otherwise("prɪˈzɛntɪd"),
		},
		"objected": {
			before("ˈɑːbdʒɛktɪd", "thing", "item", "physical", "tangible"),
			otherwise("əbˈdʒɛktɪd"),
		},
		"contracts": {
			before("kənˈtrækts", "shrink", "tighten", "muscle", "wrinkle"),
			otherwise("ˈkɑːntrækts"),
		},
		"minutely": {
			before("maɪˈnutli", "tiny", "small", "infinitesimal", "wee", "microscopic"),
			otherwise("ˈmɪnɪtli"),
		},
		"abused": {
			otherwise("əˈbjuːzd"),
		},
		"conducts": {
			before("kənˈdʌkts", "lead", "direct", "manage", "orchestra", "he", "she", "who"),
			otherwise("ˈkɑːndʌkts"),
		},
		"perfectly": {
			otherwise("ˈpɜːrfɛktli"),
		},
		"combined": {
			before("ˈkɑːmbaɪnd", "machinery", "harvester", "farm", "agriculture"),
			otherwise("kəmˈbaɪnd"),
		},
		"compactness": {
			before("kəmˈpæktnəs", "agreement", "deal", "pact", "treaty"),
			otherwise("ˈkɑːmpæktnəs"),
		},
		"projects": {
			before("prəˈdʒɛkts", "extend", "jut", "protrude", "cast", "it", "he", "she"),
			otherwise("ˈprɑːdʒɛkts"),
		},
		"subjected": {
			before("ˈsʌbdʒɛktɪd", "topic", "theme", "matter", "issue"),
			otherwise("səbˈdʒɛktɪd"),
		},
		"conflicts": {
			before("kənˈflɪkts", "disagree", "clash", "oppose", "contradict", "it", "this", "that"),
			otherwise("ˈkɑːnflɪkts"),
		},
		"permits": {
			before("ˈpɜːrmɪts", "license", "ticket", "authorization", "document", "building", "parking", "work", "the"),
			otherwise("pərˈmɪts"),
		},
		"increases": {
			before("ˈɪnkriːsɪz", "rise", "growth", "gain", "boost", "price", "salary", "tax", "the"),
			otherwise("ɪnˈkriːsɪz"),
		},
		"decreases": {
			before("ˈdiːkriːsɪz", "fall", "drop", "decline", "reduction", "price", "tax", "the"),
			otherwise("diːˈkriːsɪz"),
		},
		"insults": {
			before("ˈɪnsʌlts", "comment", "remark", "speak", "utterance", "the", "his", "her", "their"),
			otherwise("ɪnˈsʌlts"),
		},
		"progresses": {
			before("prəˈɡrɛsɪz", "move", "go", "walk", "travel", "it", "work", "story"),
			otherwise("ˈprɑːɡrɛsɪz"),
		},
		"refuses": {
			before("ˈrɛfjuːsɪz", "garbage", "trash", "waste", "rubbish"),
			otherwise("rɪˈfjuːzɪz"),
		},
		"separates": {
			otherwise("ˈsɛpəreɪts"),
		},
		"estimates": {
			otherwise("ˈɛstəməts"),
		},
		"resumes": {
			before("ˈrɛzəmeɪz", "cv", "curriculum", "vitae", "job", "application", "my", "your", "their"),
			otherwise("rɪˈzuːmz"),
		},
	}
}
