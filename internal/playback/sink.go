package playback

import (
	"sync"
	"time"
)

// Sink owns an audio output. It is only ever called from the worker
// goroutine.
type Sink interface {
	// Play starts playing mono samples and returns without waiting.
	Play(samples []float32) (Handle, error)
	Close() error
}

// Handle controls one started playback.
type Handle interface {
	// Playing reports whether audio is still being output.
	Playing() bool
	// Stop halts output early. Playing returns false afterwards.
	Stop()
	// Close releases the playback's resources.
	Close() error
}

// NullSink discards audio. With Realtime set, each playback lasts as long as
// the audio would at SampleRate; otherwise it finishes immediately.
type NullSink struct {
	SampleRate int
	Realtime   bool
}

func (s NullSink) Play(samples []float32) (Handle, error) {
	h := &timedHandle{}
	if s.Realtime && s.SampleRate > 0 {
		h.until = time.Now().Add(time.Duration(len(samples)) * time.Second / time.Duration(s.SampleRate))
	}
	return h, nil
}

func (NullSink) Close() error { return nil }

type timedHandle struct {
	mu      sync.Mutex
	until   time.Time
	stopped bool
}

func (h *timedHandle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.stopped && time.Now().Before(h.until)
}

func (h *timedHandle) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
}

func (h *timedHandle) Close() error { return nil }
