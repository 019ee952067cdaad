// Package voice loads Kokoro voice packs and discovers them on disk.
package voice

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// StyleDim is the width of one style vector.
const StyleDim = 256

// ErrEmptyPack is returned for a voice file without a complete style row.
var ErrEmptyPack = errors.New("voice pack has no style rows")

// Pack is a table of style vectors indexed by token count.
type Pack struct {
	Name string
	rows [][]float32
}

// Load reads a voice pack file of little-endian float32 values.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read voice pack: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("voice pack %s: %w", path, err)
	}
	p.Name = NameFromPath(path)
	return p, nil
}

// Parse decodes raw voice data. Trailing bytes that do not form a full
// float32, and a trailing partial row, are ignored.
func Parse(data []byte) (*Pack, error) {
	n := len(data) / 4
	rows := n / StyleDim
	if rows == 0 {
		return nil, ErrEmptyPack
	}

	flat := make([]float32, rows*StyleDim)
	for i := range flat {
		flat[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	p := &Pack{rows: make([][]float32, rows)}
	for r := range p.rows {
		p.rows[r] = flat[r*StyleDim : (r+1)*StyleDim : (r+1)*StyleDim]
	}
	return p, nil
}

// Rows returns the number of style vectors.
func (p *Pack) Rows() int { return len(p.rows) }

// Style returns the style vector for a sequence of numTokens ids (pad ids
// included). The row index is numTokens-1, clamped to the table.
func (p *Pack) Style(numTokens int) []float32 {
	idx := numTokens - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.rows) {
		idx = len(p.rows) - 1
	}
	out := make([]float32, StyleDim)
	copy(out, p.rows[idx])
	return out
}
