// Package playback owns the audio device. A single Worker goroutine, locked
// to its OS thread, plays requests one after another.
package playback

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// DefaultPoll is how often a playing request checks its stop flag.
const DefaultPoll = 5 * time.Millisecond

// ErrWorkerClosed is returned by Submit after Close.
var ErrWorkerClosed = errors.New("playback worker closed")

// Request asks the worker to play Samples. Done is closed exactly once when
// playback finishes, is stopped, or fails.
type Request struct {
	Samples []float32
	Stop    *StopFlag
	Done    chan struct{}
}

// NewRequest builds a request with a fresh Done channel.
func NewRequest(samples []float32, stop *StopFlag) *Request {
	return &Request{Samples: samples, Stop: stop, Done: make(chan struct{})}
}

// Opener creates the Sink. The worker calls it once, from its own locked
// OS thread.
type Opener func() (Sink, error)

// Static returns an Opener for an already constructed sink.
func Static(s Sink) Opener {
	return func() (Sink, error) { return s, nil }
}

// Worker serializes playback through one Sink.
type Worker struct {
	open     Opener
	sink     Sink
	closeErr error
	poll     time.Duration

	mu     sync.Mutex
	queue  []*Request
	closed bool
	wake   chan struct{}
	exited chan struct{}
}

// NewWorker starts the worker goroutine, which opens the sink. If opening
// fails the worker logs it and completes every request without playing.
// poll <= 0 uses DefaultPoll.
func NewWorker(open Opener, poll time.Duration) *Worker {
	if poll <= 0 {
		poll = DefaultPoll
	}
	w := &Worker{
		open:   open,
		poll:   poll,
		wake:   make(chan struct{}, 1),
		exited: make(chan struct{}),
	}
	go w.loop()
	return w
}

// Submit queues r without blocking. The queue is unbounded.
func (w *Worker) Submit(r *Request) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkerClosed
	}
	w.queue = append(w.queue, r)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close stops the worker after the current request, completes anything
// still queued without playing it, and closes the sink on the worker thread.
func (w *Worker) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.exited
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	<-w.exited
	return w.closeErr
}

func (w *Worker) next() (*Request, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, false
	}
	if len(w.queue) == 0 {
		return nil, true
	}
	r := w.queue[0]
	w.queue[0] = nil
	w.queue = w.queue[1:]
	return r, true
}

func (w *Worker) loop() {
	// Audio backends may require every call on one OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.exited)

	sink, err := w.open()
	if err != nil {
		slog.Error("audio output unavailable, requests will complete silently", "error", err)
	} else {
		w.sink = sink
		defer func() { w.closeErr = sink.Close() }()
	}

	for {
		r, open := w.next()
		if !open {
			w.drain()
			return
		}
		if r == nil {
			<-w.wake
			continue
		}
		w.play(r)
	}
}

func (w *Worker) drain() {
	w.mu.Lock()
	pending := w.queue
	w.queue = nil
	w.mu.Unlock()
	for _, r := range pending {
		close(r.Done)
	}
}

func (w *Worker) play(r *Request) {
	defer close(r.Done)

	if w.sink == nil || r.Stop.IsSet() || len(r.Samples) == 0 {
		return
	}

	h, err := w.sink.Play(r.Samples)
	if err != nil {
		slog.Error("playback failed", "samples", len(r.Samples), "error", err)
		return
	}
	defer func() {
		if err := h.Close(); err != nil {
			slog.Warn("closing playback", "error", err)
		}
	}()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for h.Playing() {
		if r.Stop.IsSet() {
			h.Stop()
			slog.Debug("playback stopped")
			return
		}
		<-ticker.C
	}
}
