package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Dictionary maps lower-cased words to their ARPAbet pronunciations in
// file order.
type Dictionary struct {
	entries map[string][][]string
}

// LoadDictionary reads a CMU-format pronouncing dictionary. Files ending in
// .gz or .zst are decompressed transparently.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip dictionary %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open zstd dictionary %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	d, err := ParseDictionary(r)
	if err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	return d, nil
}

// ParseDictionary parses CMU dictionary lines of the form
// "WORD  W ER1 D" or "word(2) W ER1 D". Lines starting with ";;;" and
// trailing "#" comments are ignored.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{entries: make(map[string][][]string)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.HasPrefix(text, ";;;") {
			continue
		}
		if i := strings.Index(text, " #"); i >= 0 {
			text = text[:i]
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 {
			return nil, fmt.Errorf("line %d: word %q has no phones", line, fields[0])
		}

		word := strings.ToLower(fields[0])
		if open := strings.IndexByte(word, '('); open > 0 && strings.HasSuffix(word, ")") {
			word = word[:open]
		}
		d.entries[word] = append(d.entries[word], fields[1:])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewDictionary builds a dictionary from an in-memory map. Keys are
// lower-cased.
func NewDictionary(entries map[string][][]string) *Dictionary {
	d := &Dictionary{entries: make(map[string][][]string, len(entries))}
	for w, prons := range entries {
		d.entries[strings.ToLower(w)] = prons
	}
	return d
}

// Lookup returns every pronunciation of word, case-insensitively.
func (d *Dictionary) Lookup(word string) ([][]string, bool) {
	if d == nil {
		return nil, false
	}
	prons, ok := d.entries[strings.ToLower(word)]
	return prons, ok && len(prons) > 0
}

// Len reports the number of distinct words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}
