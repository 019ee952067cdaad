package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// streamSentences writes a streaming header followed by each sentence's
// PCM, the way the HTTP endpoint emits audio as sentences finish.
func streamSentences(t *testing.T, sentences ...[]float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := WriteWAVHeaderStreaming(&buf); err != nil {
		t.Fatal(err)
	}
	for i, s := range sentences {
		n, err := WritePCM16Samples(&buf, s)
		if err != nil {
			t.Fatalf("sentence %d: %v", i, err)
		}
		if n != 2*len(s) {
			t.Fatalf("sentence %d: wrote %d bytes, want %d", i, n, 2*len(s))
		}
	}
	return buf.Bytes()
}

func sampleAt(data []byte, i int) int16 {
	off := 44 + 2*i
	return int16(binary.LittleEndian.Uint16(data[off : off+2]))
}

func TestStreamingHeader(t *testing.T) {
	hdr := streamSentences(t)
	if len(hdr) != 44 {
		t.Fatalf("header is %d bytes, want 44", len(hdr))
	}

	tags := map[int]string{0: "RIFF", 8: "WAVE", 12: "fmt ", 36: "data"}
	for off, want := range tags {
		if got := string(hdr[off : off+4]); got != want {
			t.Errorf("tag at %d = %q, want %q", off, got, want)
		}
	}

	u16 := func(off int) uint32 { return uint32(binary.LittleEndian.Uint16(hdr[off:])) }
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(hdr[off:]) }
	fields := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", u32(4), 0xFFFFFFFF},
		{"fmt size", u32(16), 16},
		{"format", u16(20), 1},
		{"channels", u16(22), Channels},
		{"sample rate", u32(24), SampleRate},
		{"byte rate", u32(28), SampleRate * 2},
		{"block align", u16(32), 2},
		{"bits", u16(34), BitDepth},
		{"data size", u32(40), 0xFFFFFFFF},
	}
	for _, f := range fields {
		if f.got != f.want {
			t.Errorf("%s = %d, want %d", f.name, f.got, f.want)
		}
	}
}

func TestStreamingSentencesAreContiguous(t *testing.T) {
	first := []float32{0.5, 0.5, 0.5}
	pause := make([]float32, 4)
	second := []float32{-0.25, -0.25}

	data := streamSentences(t, first, pause, second)

	if want := 44 + 2*(len(first)+len(pause)+len(second)); len(data) != want {
		t.Fatalf("stream is %d bytes, want %d", len(data), want)
	}
	boundaries := []struct {
		index int
		want  int16
	}{
		{0, 16383},
		{2, 16383},
		{3, 0},
		{6, 0},
		{7, -8191},
		{8, -8191},
	}
	for _, b := range boundaries {
		if got := sampleAt(data, b.index); absDiff(got, b.want) > 1 {
			t.Errorf("sample %d = %d, want ~%d", b.index, got, b.want)
		}
	}
}

func TestPCM16(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"silence", 0, 0},
		{"full scale", 1, 32767},
		{"negative full scale", -1, -32767},
		{"hot model output clamps", 1.7, 32767},
		{"hot negative clamps", -2.5, -32767},
		{"nan is silence", float32(math.NaN()), 0},
		{"inf clamps", float32(math.Inf(1)), 32767},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pcm := PCM16([]float32{tt.in})
			if got := int16(binary.LittleEndian.Uint16(pcm)); got != tt.want {
				t.Errorf("PCM16(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}

	if got := PCM16(nil); len(got) != 0 {
		t.Errorf("PCM16(nil) = %d bytes", len(got))
	}
}

func absDiff(a, b int16) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
