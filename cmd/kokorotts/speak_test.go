package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/playback"
)

// toneSynth returns a tenth of a second per sentence.
type toneSynth struct{}

func (toneSynth) Synthesize(ctx context.Context, _ string) ([]float32, error) {
	return make([]float32, audio.SampleRate/10), ctx.Err()
}

func testSpeaker(t *testing.T, enabled bool, open playback.Opener) *speaker {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.TTS.Enabled = enabled
	cfg.TTS.PollMillis = 1
	sp := newSpeaker(cfg, toneSynth{}, open)
	t.Cleanup(func() { _ = sp.Close() })
	return sp
}

func TestSpeak(t *testing.T) {
	realtime := playback.Static(playback.NullSink{SampleRate: audio.SampleRate, Realtime: true})

	t.Run("plays every sentence", func(t *testing.T) {
		sp := testSpeaker(t, true, realtime)
		if err := speak(context.Background(), sp.Controller, "Hello there. Good bye."); err != nil {
			t.Fatalf("speak: %v", err)
		}
	})

	t.Run("interrupt is not an error", func(t *testing.T) {
		sp := testSpeaker(t, true, realtime)
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)
		if err := speak(ctx, sp.Controller, "One. Two. Three. Four. Five. Six."); err != nil {
			t.Fatalf("speak after interrupt = %v, want nil", err)
		}
	})

	t.Run("cancelled before start", func(t *testing.T) {
		sp := testSpeaker(t, true, realtime)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := speak(ctx, sp.Controller, "Hello."); err != nil {
			t.Fatalf("speak = %v, want nil", err)
		}
	})

	t.Run("nothing spoken is an error", func(t *testing.T) {
		sp := testSpeaker(t, false, realtime)
		if err := speak(context.Background(), sp.Controller, "Hello."); err == nil {
			t.Fatal("expected error when playback is disabled")
		}
	})

	t.Run("missing device completes", func(t *testing.T) {
		sp := testSpeaker(t, true, func() (playback.Sink, error) {
			return nil, errors.New("no audio device")
		})
		done := make(chan error, 1)
		go func() { done <- speak(context.Background(), sp.Controller, "Hello.") }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("speak hung without an audio device")
		}
	})
}
