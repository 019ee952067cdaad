package g2p

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	type tok struct {
		text string
		kind Kind
	}
	tests := []struct {
		name string
		in   string
		want []tok
	}{
		{
			name: "sentence with contraction",
			in:   "I can't read that.",
			want: []tok{
				{"I", Word}, {" ", Whitespace}, {"can't", Word}, {" ", Whitespace},
				{"read", Word}, {" ", Whitespace}, {"that", Word}, {".", Punctuation},
			},
		},
		{
			name: "number with separators and decimals",
			in:   "Pay $1,000.50 now!",
			want: []tok{
				{"Pay", Word}, {" ", Whitespace}, {"$", Punctuation}, {"1,000.50", Number},
				{" ", Whitespace}, {"now", Word}, {"!", Punctuation},
			},
		},
		{
			name: "trailing dot is punctuation",
			in:   "It is 42.",
			want: []tok{
				{"It", Word}, {" ", Whitespace}, {"is", Word}, {" ", Whitespace},
				{"42", Number}, {".", Punctuation},
			},
		},
		{
			name: "leading apostrophe word",
			in:   "get 'em",
			want: []tok{{"get", Word}, {" ", Whitespace}, {"'em", Word}},
		},
		{
			name: "trailing apostrophe is punctuation",
			in:   "dogs' toys",
			want: []tok{{"dogs", Word}, {"'", Punctuation}, {" ", Whitespace}, {"toys", Word}},
		},
		{
			name: "digits glued to letters form a word",
			in:   "3rd mp3",
			want: []tok{{"3rd", Word}, {" ", Whitespace}, {"mp3", Word}},
		},
		{
			name: "punctuation run and mixed whitespace",
			in:   "wait...\n\tok",
			want: []tok{{"wait", Word}, {"...", Punctuation}, {"\n\t", Whitespace}, {"ok", Word}},
		},
		{
			name: "comma not followed by digit",
			in:   "1, 2",
			want: []tok{{"1", Number}, {",", Punctuation}, {" ", Whitespace}, {"2", Number}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %d tokens", tt.in, got, len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Text != w.text || got[i].Kind != w.kind {
					t.Errorf("token %d = {%q %s}, want {%q %s}", i, got[i].Text, got[i].Kind, w.text, w.kind)
				}
			}
		})
	}
}

func TestTokenizeLossless(t *testing.T) {
	inputs := []string{
		"",
		"Hello, world!",
		"  leading and trailing  ",
		"Ünïcödé wörds — and “quotes”.",
		"3.14159 is pi; 1,234,567 is big.",
		"o'clock rock'n'roll '90s",
	}
	for _, in := range inputs {
		var b strings.Builder
		pos := 0
		for _, tok := range Tokenize(in) {
			if tok.Position != pos {
				t.Errorf("%q: token %q at %d, want %d", in, tok.Text, tok.Position, pos)
			}
			pos += len([]rune(tok.Text))
			b.WriteString(tok.Text)
		}
		if b.String() != in {
			t.Errorf("concatenated tokens = %q, want %q", b.String(), in)
		}
	}
}
