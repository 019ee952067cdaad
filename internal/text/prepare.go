package text

import (
	"strings"
)

// StripCodeBlocks removes fenced ``` blocks. A line whose trimmed form starts
// with ``` toggles code mode and is dropped itself; an unterminated fence
// drops the rest of the text.
func StripCodeBlocks(s string) string {
	var b strings.Builder
	inCode := false
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if !inCode {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Prepare turns chat-style text into speakable sentences: code blocks are
// removed, the rest normalized, newlines folded to spaces and runs of
// spaces collapsed. It returns ErrEmptyText when nothing speakable is left.
func Prepare(input string) ([]string, error) {
	s, err := Normalize(StripCodeBlocks(input))
	if err != nil {
		return nil, err
	}

	s = strings.Join(strings.Fields(s), " ")

	sentences := Sentences(s)
	if len(sentences) == 0 {
		return nil, ErrEmptyText
	}
	return sentences, nil
}
