package lexicon

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const sampleDict = `;;; test dictionary
HELLO  HH AH0 L OW1
WORLD  W ER1 L D
READ  R EH1 D
READ(2)  R IY1 D
cat K AE1 T # trailing comment
`

func TestArpabetToIPA(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AH0", "ə"},
		{"OW1", "ˈoʊ"},
		{"EY2", "ˌeɪ"},
		{"HH", "h"},
		{"hh", "h"},
		{"SIL", ""},
		{"XX", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ArpabetToIPA(tt.in); got != tt.want {
				t.Errorf("ArpabetToIPA(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDictionary(t *testing.T) {
	d, err := ParseDictionary(strings.NewReader(sampleDict))
	if err != nil {
		t.Fatalf("ParseDictionary: %v", err)
	}
	if d.Len() != 4 {
		t.Fatalf("Len = %d, want 4", d.Len())
	}

	prons, ok := d.Lookup("Read")
	if !ok || len(prons) != 2 {
		t.Fatalf("Lookup(Read) = %v, %v; want two pronunciations", prons, ok)
	}
	if got := strings.Join(prons[0], " "); got != "R EH1 D" {
		t.Errorf("first pronunciation = %q, want file order", got)
	}

	if _, ok := d.Lookup("cat"); !ok {
		t.Error("lower-case entry with trailing comment not parsed")
	}
}

func TestParseDictionaryRejectsBareWord(t *testing.T) {
	if _, err := ParseDictionary(strings.NewReader("LONELY\n")); err == nil {
		t.Fatal("expected error for entry without phones")
	}
}

func TestLoadDictionaryCompressed(t *testing.T) {
	dir := t.TempDir()

	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	if _, err := w.Write([]byte(sampleDict)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	zst := enc.EncodeAll([]byte(sampleDict), nil)
	_ = enc.Close()

	files := map[string][]byte{
		"dict.txt":     []byte(sampleDict),
		"dict.txt.gz":  gz.Bytes(),
		"dict.txt.zst": zst,
	}
	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatal(err)
			}
			d, err := LoadDictionary(path)
			if err != nil {
				t.Fatalf("LoadDictionary: %v", err)
			}
			if _, ok := d.Lookup("hello"); !ok {
				t.Error("hello missing")
			}
		})
	}
}

func TestLoadDictionaryMissing(t *testing.T) {
	if _, err := LoadDictionary(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPronounce(t *testing.T) {
	d, err := ParseDictionary(strings.NewReader(sampleDict))
	if err != nil {
		t.Fatal(err)
	}
	lex := New(d)

	got, err := lex.Pronounce("HELLO")
	if err != nil {
		t.Fatalf("Pronounce: %v", err)
	}
	if got != "həlˈoʊ" {
		t.Errorf("Pronounce(HELLO) = %q, want %q", got, "həlˈoʊ")
	}

	if _, err := lex.Pronounce("zzyzx"); !errors.Is(err, ErrNoPronunciation) {
		t.Errorf("Pronounce(unknown) error = %v, want ErrNoPronunciation", err)
	}
}

func TestHeteronymRead(t *testing.T) {
	lex := New(nil)
	rules := DefaultHeteronyms()["read"]
	past, present, fallback := rules[0].Phonemes, rules[1].Phonemes, rules[len(rules)-1].Phonemes

	tests := []struct {
		name   string
		before []string
		after  []string
		want   string
	}{
		{"past tense context", nil, []string{"a", "book", "yesterday"}, past},
		{"present tense context", []string{"I", "will"}, []string{"this", "now"}, present},
		{"no keywords", []string{"I", "can't"}, []string{"that"}, fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lex.Heteronym("Read", tt.before, tt.after)
			if !ok {
				t.Fatal("read not registered")
			}
			if got != tt.want {
				t.Errorf("Heteronym = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeteronymWhere(t *testing.T) {
	lex := New(nil)

	if got, _ := lex.Heteronym("wind", []string{"the", "cold"}, nil); got != "wɪnd" {
		t.Errorf("noun context = %q", got)
	}
	if got, _ := lex.Heteronym("wind", []string{"please"}, []string{"the", "clock"}); got != "waɪnd" {
		t.Errorf("verb context = %q", got)
	}
	if got, _ := lex.Heteronym("wind", []string{"clock"}, nil); got != "wɪnd" {
		t.Errorf("after-only keyword matched before the word: %q", got)
	}
	if _, ok := lex.Heteronym("table", nil, nil); ok {
		t.Error("table is not a heteronym")
	}
}

func TestHeteronymInflectedForms(t *testing.T) {
	lex := New(nil)
	words := []string{
		"abused", "closed", "combined", "compactness", "conducts", "conflicts",
		"contracts", "decreases", "estimates", "increases", "insults", "minutely",
		"objected", "perfectly", "permits", "presented", "produces", "progresses",
		"projects", "refuses", "resumes", "separates", "subjected",
	}
	for _, w := range words {
		if _, ok := lex.Heteronym(w, nil, nil); !ok {
			t.Errorf("%s not registered", w)
		}
	}

	tests := []struct {
		word   string
		before []string
		want   string
	}{
		{"contracts", []string{"the", "muscle"}, "kənˈtrækts"},
		{"contracts", []string{"she", "signed", "two"}, "ˈkɑːntrækts"},
		{"refuses", []string{"garbage"}, "ˈrɛfjuːsɪz"},
		{"refuses", []string{"he"}, "rɪˈfjuːzɪz"},
		{"resumes", []string{"my"}, "ˈrɛzəmeɪz"},
		{"resumes", []string{"the", "meeting"}, "rɪˈzuːmz"},
		{"closed", []string{"very"}, "kloʊst"},
		{"closed", []string{"the", "door"}, "kloʊzd"},
	}
	for _, tt := range tests {
		t.Run(tt.word+" "+strings.Join(tt.before, "_"), func(t *testing.T) {
			got, _ := lex.Heteronym(tt.word, tt.before, nil)
			if got != tt.want {
				t.Errorf("Heteronym(%q, %v) = %q, want %q", tt.word, tt.before, got, tt.want)
			}
		})
	}
}

func TestHeteronymTablesEndWithDefault(t *testing.T) {
	for word, rules := range DefaultHeteronyms() {
		if len(rules) == 0 {
			t.Errorf("%s: empty rule list", word)
			continue
		}
		if last := rules[len(rules)-1]; len(last.Keywords) != 0 {
			t.Errorf("%s: last rule is conditional", word)
		}
		if word != strings.ToLower(word) {
			t.Errorf("%s: key not lower-case", word)
		}
	}
}

func TestIrregular(t *testing.T) {
	lex := New(nil)

	e, ok := lex.Irregular("Can't")
	if !ok || e.Respelling || e.Text != "kænt" {
		t.Errorf("Irregular(Can't) = %+v, %v", e, ok)
	}

	e, ok = lex.Irregular("wasn't")
	if !ok || strings.ContainsAny(e.Text, "/.") {
		t.Errorf("slashes or dots left in %q", e.Text)
	}

	e, ok = lex.Irregular("mr")
	if !ok || !e.Respelling || e.Text != "mister" {
		t.Errorf("Irregular(mr) = %+v, %v", e, ok)
	}
}
