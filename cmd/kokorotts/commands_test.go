package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/testutil"
	"github.com/example/go-kokoro-tts/internal/text"
	"github.com/example/go-kokoro-tts/internal/voice"
)

const fixtureDict = `HELLO  HH AH0 L OW1
WORLD  W ER1 L D
`

const fixtureVocab = `{"model":{"vocab":{"h":1,"ə":2,"l":3,"ˈ":4,"o":5,"ʊ":6,"w":7,"ɜ":8,"ː":9,"d":10,".":11," ":12}}}`

func fixtureConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Paths.DictionaryPath = filepath.Join(dir, "cmudict.dict")
	cfg.Paths.VocabularyPath = filepath.Join(dir, "tokenizer.json")
	cfg.Paths.VoicesDir = filepath.Join(dir, "voices")

	if err := os.WriteFile(cfg.Paths.DictionaryPath, []byte(fixtureDict), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.Paths.VocabularyPath, []byte(fixtureVocab), 0o600); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestPhonemize(t *testing.T) {
	fe, err := loadFrontend(fixtureConfig(t))
	if err != nil {
		t.Fatalf("loadFrontend: %v", err)
	}

	var out, stats bytes.Buffer
	if err := phonemize(&out, &stats, fe, "Hello world. Hello!", true); err != nil {
		t.Fatalf("phonemize: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected phonemes and ids for two sentences, got %q", out.String())
	}
	if !strings.Contains(lines[0], "həlˈoʊ") {
		t.Errorf("first sentence phonemes %q missing hello", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0 ") || !strings.HasSuffix(lines[1], " 0") {
		t.Errorf("ids %q should be padded with 0", lines[1])
	}
	if !strings.Contains(stats.String(), "2 sentences") {
		t.Errorf("unexpected stats line %q", stats.String())
	}
}

func TestPhonemize_EmptyText(t *testing.T) {
	fe, err := loadFrontend(fixtureConfig(t))
	if err != nil {
		t.Fatalf("loadFrontend: %v", err)
	}
	var out bytes.Buffer
	if err := phonemize(&out, &out, fe, "```\ncode only\n```", false); err == nil {
		t.Fatal("expected error for text with nothing speakable")
	}
}

func TestLoadFrontend_MissingFiles(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Paths.DictionaryPath = filepath.Join(t.TempDir(), "missing.dict")

	if _, err := loadFrontend(cfg); err == nil {
		t.Fatal("expected error for missing dictionary")
	}
}

func TestReadText(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		stdin   string
		want    string
		wantErr error
	}{
		{"flag wins", "from flag", "from stdin", "from flag", nil},
		{"stdin fallback", "", "from stdin", "from stdin", nil},
		{"blank flag uses stdin", "   ", "piped", "piped", nil},
		{"nothing", "", " \n", "", text.ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(strings.NewReader(tt.stdin), tt.flag)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDSPOptions_Hooks(t *testing.T) {
	tests := []struct {
		name string
		opts dspOptions
		want int
	}{
		{"none", dspOptions{}, 0},
		{"normalize", dspOptions{normalize: true}, 1},
		{"all", dspOptions{normalize: true, dcBlock: true, fadeInMS: 10, fadeOutMS: 10}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.opts.hooks()); got != tt.want {
				t.Errorf("hooks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDSPOptions_NormalizeReachesPeak(t *testing.T) {
	samples := []float32{0.1, -0.25, 0.2}
	got := audio.ApplyHooks(samples, dspOptions{normalize: true}.hooks()...)

	var peak float32
	for _, s := range got {
		peak = max(peak, s, -s)
	}
	if peak < 0.9 {
		t.Errorf("normalized peak = %v, want near full scale", peak)
	}
}

func TestWriteOutput(t *testing.T) {
	samples := make([]float32, audio.SampleRate/10)
	for i := range samples {
		samples[i] = 0.25
	}

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.wav")
		if err := writeOutput(nil, path, samples); err != nil {
			t.Fatalf("writeOutput: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertValidWAV(t, data)
	})

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeOutput(&buf, "-", samples); err != nil {
			t.Fatalf("writeOutput: %v", err)
		}
		testutil.AssertValidWAV(t, buf.Bytes())
		testutil.AssertWAVDurationApprox(t, buf.Bytes(), 0.09, 0.11)
	})
}

func TestListVoices(t *testing.T) {
	voices := []voice.Voice{
		{ID: "af_bella", Size: 522240},
		{ID: "am_adam", Size: 522240},
	}

	var buf bytes.Buffer
	if err := listVoices(&buf, voices, "am_adam"); err != nil {
		t.Fatalf("listVoices: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "* am_adam") {
		t.Errorf("current voice not marked: %q", lines[1])
	}
	if !strings.Contains(lines[0], "522 kB") {
		t.Errorf("expected humanized size in %q", lines[0])
	}
}

func TestDoctorConfig_Counts(t *testing.T) {
	cfg := fixtureConfig(t)
	dcfg := doctorConfig(cfg, true)

	if !dcfg.SkipRuntime {
		t.Error("SkipRuntime not propagated")
	}

	n, err := dcfg.Dictionary()
	if err != nil || n != 2 {
		t.Errorf("Dictionary() = %d, %v; want 2", n, err)
	}
	n, err = dcfg.Vocabulary()
	if err != nil || n != 12 {
		t.Errorf("Vocabulary() = %d, %v; want 12", n, err)
	}
}

func TestPollInterval(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TTS.PollMillis = 0
	if got := pollInterval(cfg); got <= 0 {
		t.Errorf("pollInterval fallback = %v", got)
	}
	cfg.TTS.PollMillis = 20
	if got := pollInterval(cfg).Milliseconds(); got != 20 {
		t.Errorf("pollInterval = %dms, want 20", got)
	}
}
