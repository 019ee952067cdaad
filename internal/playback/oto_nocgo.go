//go:build nocgo

package playback

import (
	"errors"
	"time"
)

// ErrNoAudio is returned by NewOtoSink in builds without an audio backend.
var ErrNoAudio = errors.New("audio output not available in nocgo build")

// OtoSink is unavailable in nocgo builds.
type OtoSink struct{}

// NewOtoSink always fails in nocgo builds. Callers fall back to silent
// completion through the worker.
func NewOtoSink(int, time.Duration) (*OtoSink, error) {
	return nil, ErrNoAudio
}

func (*OtoSink) Play([]float32) (Handle, error) { return nil, ErrNoAudio }

func (*OtoSink) Close() error { return nil }
