// Package tts turns sentences into waveforms: G2P, phoneme encoding, voice
// style lookup and the acoustic model.
package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/cache"
	"github.com/example/go-kokoro-tts/internal/tokenizer"
	"github.com/example/go-kokoro-tts/internal/voice"
)

// ErrModelNotLoaded wraps failures to open the model or voice pack.
var ErrModelNotLoaded = errors.New("tts model not loaded")

// ErrNoPhonemes is returned for a sentence that encodes to no model ids.
var ErrNoPhonemes = errors.New("sentence produced no phonemes")

// ErrClosed is returned by Synthesize after Close.
var ErrClosed = errors.New("tts service closed")

// Phonemizer converts text to a phoneme string. g2p.Resolver implements it.
type Phonemizer interface {
	Phonemize(text string) string
}

// Options wires a Service.
type Options struct {
	Phonemizer Phonemizer
	Tokenizer  tokenizer.Tokenizer
	Voices     *voice.Catalog
	Voice      string
	Speed      float32
	Loader     Loader
	Cache      *cache.Cache // nil disables caching
	Hooks      []audio.Hook
}

// Service synthesizes one sentence at a time. It is safe for concurrent use;
// inference runs under a read lock so a voice change waits for in-flight
// calls before swapping the model.
type Service struct {
	phonemizer Phonemizer
	tokenizer  tokenizer.Tokenizer
	voices     *voice.Catalog
	loader     Loader
	cache      *cache.Cache
	hooks      []audio.Hook

	mu          sync.RWMutex
	voice       string
	speed       float32
	runtime     Runtime
	pack        *voice.Pack
	loadedVoice string
	closed      bool
}

// NewService validates options and eagerly loads the selected voice pack so
// a missing voice fails at startup. The model itself loads on first use.
func NewService(opts Options) (*Service, error) {
	if opts.Phonemizer == nil {
		return nil, errors.New("tts: phonemizer is required")
	}
	if opts.Tokenizer == nil {
		return nil, errors.New("tts: tokenizer is required")
	}
	if opts.Voices == nil {
		return nil, errors.New("tts: voice catalog is required")
	}
	if opts.Loader == nil {
		return nil, errors.New("tts: model loader is required")
	}
	if opts.Voice == "" {
		opts.Voice = voice.DefaultVoice
	}
	if opts.Speed <= 0 {
		opts.Speed = 1
	}

	s := &Service{
		phonemizer: opts.Phonemizer,
		tokenizer:  opts.Tokenizer,
		voices:     opts.Voices,
		loader:     opts.Loader,
		cache:      opts.Cache,
		hooks:      opts.Hooks,
		voice:      opts.Voice,
		speed:      opts.Speed,
	}

	pack, err := s.loadPack(opts.Voice)
	if err != nil {
		return nil, err
	}
	s.pack = pack

	return s, nil
}

func (s *Service) loadPack(id string) (*voice.Pack, error) {
	path, err := s.voices.Resolve(id)
	if err != nil {
		return nil, err
	}
	return voice.Load(path)
}

// Voice returns the selected voice id.
func (s *Service) Voice() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voice
}

// SetVoice selects a voice. The model and pack are reloaded on the next
// synthesis, not here.
func (s *Service) SetVoice(id string) error {
	if _, err := s.voices.Resolve(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.voice != id {
		slog.Info("voice changed", "from", s.voice, "to", id)
		s.voice = id
	}
	return nil
}

// Speed returns the speed multiplier.
func (s *Service) Speed() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speed
}

// SetSpeed changes the speed multiplier. Values <= 0 are rejected.
func (s *Service) SetSpeed(speed float32) error {
	if speed <= 0 {
		return fmt.Errorf("speed must be > 0, got %v", speed)
	}
	s.mu.Lock()
	s.speed = speed
	s.mu.Unlock()
	return nil
}

// Loaded reports whether the model is open for the selected voice.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runtime != nil && s.loadedVoice == s.voice
}

// Phonemes returns the phoneme string and model ids for text.
func (s *Service) Phonemes(text string) (string, []int64, error) {
	phonemes := s.phonemizer.Phonemize(text)
	ids, err := s.tokenizer.Encode(phonemes)
	if err != nil {
		return phonemes, nil, fmt.Errorf("encode phonemes: %w", err)
	}
	return phonemes, ids, nil
}

// Load opens the model for the selected voice if it is not already open.
func (s *Service) Load() error {
	s.mu.RLock()
	ready := s.runtime != nil && s.loadedVoice == s.voice
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if ready {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Service) loadLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.runtime != nil && s.loadedVoice == s.voice {
		return nil
	}

	start := time.Now()
	if s.pack == nil || s.pack.Name != s.voice {
		pack, err := s.loadPack(s.voice)
		if err != nil {
			return fmt.Errorf("%w: voice %q: %v", ErrModelNotLoaded, s.voice, err)
		}
		s.pack = pack
	}

	if s.runtime != nil {
		s.runtime.Close()
		s.runtime = nil
	}
	rt, err := s.loader()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
	}
	s.runtime = rt
	s.loadedVoice = s.voice

	slog.Info("tts model loaded", "voice", s.voice, "style_rows", s.pack.Rows(), "elapsed", time.Since(start))
	return nil
}

// acquire loads the model if needed and returns holding the read lock with a
// runtime that matches the selected voice.
func (s *Service) acquire() error {
	for attempt := 0; attempt < 3; attempt++ {
		if err := s.Load(); err != nil {
			return err
		}
		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			return ErrClosed
		}
		if s.runtime != nil && s.loadedVoice == s.voice {
			return nil
		}
		s.mu.RUnlock()
	}
	return fmt.Errorf("%w: voice kept changing during load", ErrModelNotLoaded)
}

// Synthesize returns the waveform for one sentence. The returned slice is
// owned by the caller.
func (s *Service) Synthesize(ctx context.Context, sentence string) ([]float32, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	key := cache.Key(s.voice, s.speed, sentence)
	if w, ok := s.cache.Get(key); ok {
		slog.Debug("waveform cache hit", "sentence", sentence, "samples", len(w))
		return w, nil
	}

	phonemes, ids, err := s.Phonemes(sentence)
	if err != nil {
		return nil, err
	}
	slog.Debug("phonemes", "sentence", sentence, "phonemes", phonemes, "ids", len(ids))
	if len(ids) <= 2 {
		return nil, ErrNoPhonemes
	}

	start := time.Now()
	wave, err := s.runtime.Synthesize(ctx, ids, s.pack.Style(len(ids)), s.speed)
	if err != nil {
		return nil, fmt.Errorf("synthesize %q: %w", sentence, err)
	}
	wave = audio.ApplyHooks(wave, s.hooks...)

	slog.Debug("sentence synthesized",
		"voice", s.voice,
		"samples", len(wave),
		"audio", time.Duration(len(wave))*time.Second/audio.SampleRate,
		"elapsed", time.Since(start),
	)

	s.cache.Put(key, wave)
	return wave, nil
}

// SynthesizeAll synthesizes sentences in order and concatenates them.
// Sentences that fail are logged and skipped; ctx cancellation stops early.
func (s *Service) SynthesizeAll(ctx context.Context, sentences []string) ([]float32, error) {
	var out []float32
	for _, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		wave, err := s.Synthesize(ctx, sentence)
		if err != nil {
			if errors.Is(err, ErrModelNotLoaded) || errors.Is(err, ErrClosed) {
				return out, err
			}
			slog.Warn("sentence skipped", "sentence", sentence, "error", err)
			continue
		}
		out = append(out, wave...)
	}
	return out, nil
}

// Close releases the model. Later calls to Synthesize return ErrClosed.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.runtime != nil {
		s.runtime.Close()
		s.runtime = nil
	}
}
