package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/cache"
	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/g2p"
	"github.com/example/go-kokoro-tts/internal/lexicon"
	"github.com/example/go-kokoro-tts/internal/tokenizer"
	"github.com/example/go-kokoro-tts/internal/tts"
	"github.com/example/go-kokoro-tts/internal/voice"
)

// edgeFadeMS smooths the start and end of every sentence.
const edgeFadeMS = 5

// frontend is the text side of the stack: everything needed to turn text
// into model input ids.
type frontend struct {
	resolver *g2p.Resolver
	vocab    *tokenizer.Vocabulary
}

func loadFrontend(cfg config.Config) (*frontend, error) {
	lex, err := lexicon.Load(cfg.Paths.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	vocab, err := tokenizer.LoadVocabulary(cfg.Paths.VocabularyPath)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	words, heteronyms, irregulars := lex.Stats()
	slog.Debug("frontend loaded",
		"dictionary", cfg.Paths.DictionaryPath,
		"words", words,
		"heteronyms", heteronyms,
		"irregulars", irregulars,
		"symbols", vocab.Len(),
	)
	return &frontend{resolver: g2p.NewResolver(lex), vocab: vocab}, nil
}

// stack is a fully wired synthesis service.
type stack struct {
	svc     *tts.Service
	catalog *voice.Catalog
	cache   *cache.Cache
}

func (s *stack) Close() {
	s.svc.Close()
	if err := s.cache.Close(); err != nil {
		slog.Warn("closing cache", "error", err)
	}
	st := s.cache.Stats()
	slog.Debug("cache stats", "hits", st.Hits, "disk_hits", st.DiskHits, "misses", st.Misses)
}

// buildStack wires lexicon, vocabulary, voices, cache and the ONNX loader
// into a tts.Service. extra hooks run after the edge fades.
func buildStack(cfg config.Config, extra ...audio.Hook) (*stack, error) {
	fe, err := loadFrontend(cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := voice.NewCatalog(cfg.Paths.VoicesDir)
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cache.Config{
		Entries:   cfg.Cache.Entries,
		Dir:       cfg.Cache.Dir,
		DiskBytes: cfg.Cache.DiskBytes,
		ZstdLevel: cfg.Cache.ZstdLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	hooks := append([]audio.Hook{audio.EdgeFades(audio.SampleRate, edgeFadeMS)}, extra...)
	svc, err := tts.NewService(tts.Options{
		Phonemizer: fe.resolver,
		Tokenizer:  fe.vocab,
		Voices:     catalog,
		Voice:      cfg.TTS.Voice,
		Speed:      float32(cfg.TTS.Speed),
		Loader:     tts.ONNXLoader(cfg.Paths.ModelPath, cfg.Runtime),
		Cache:      c,
		Hooks:      hooks,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return &stack{svc: svc, catalog: catalog, cache: c}, nil
}
