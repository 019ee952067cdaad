// Package pipeline speaks text sentence by sentence. A producer synthesizes
// ahead of playback by at most two sentences; a consumer hands each waveform
// to the playback worker. Both stop within one poll interval of Request.Stop.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/go-kokoro-tts/internal/playback"
	"github.com/example/go-kokoro-tts/internal/text"
)

// Depth bounds how many synthesized sentences may wait for playback.
const Depth = 2

// StopFlag is the per-request cancellation flag.
type StopFlag = playback.StopFlag

// Synthesizer turns one sentence into mono samples.
type Synthesizer interface {
	Synthesize(ctx context.Context, sentence string) ([]float32, error)
}

// Player accepts playback requests. *playback.Worker implements it.
type Player interface {
	Submit(r *playback.Request) error
}

// State is the lifecycle stage of a Request.
type State int32

const (
	Idle State = iota
	Splitting
	Synthesizing
	Playing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Splitting:
		return "splitting"
	case Synthesizing:
		return "synthesizing"
	case Playing:
		return "playing"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// utterance is one synthesized sentence on its way to the player.
type utterance struct {
	index    int
	sentence string
	samples  []float32
}

// Request is one top-level speak call.
type Request struct {
	stop    *StopFlag
	cancel  context.CancelFunc
	unwatch func() bool
	done    chan struct{}
	state   atomic.Int32

	synthesized atomic.Int32
	played      atomic.Int32
}

func newRequest() *Request {
	return &Request{stop: playback.NewStopFlag(), done: make(chan struct{})}
}

// Stop cancels the request. It does not wait; use Wait for that.
func (r *Request) Stop() {
	r.stop.Set()
	if r.cancel != nil {
		r.cancel()
	}
}

// Stopped reports whether Stop was called.
func (r *Request) Stopped() bool { return r.stop.IsSet() }

// Wait blocks until both the producer and the consumer have exited.
func (r *Request) Wait() { <-r.done }

// Done is closed when the request has finished.
func (r *Request) Done() <-chan struct{} { return r.done }

// State returns the current stage.
func (r *Request) State() State { return State(r.state.Load()) }

// Synthesized returns how many sentences produced audio.
func (r *Request) Synthesized() int { return int(r.synthesized.Load()) }

// Played returns how many sentences were handed to the player and finished.
func (r *Request) Played() int { return int(r.played.Load()) }

func (r *Request) setState(s State) { r.state.Store(int32(s)) }

// Controller runs speak requests. Starting a new one stops the previous.
type Controller struct {
	synth  Synthesizer
	player Player
	poll   time.Duration

	enabled atomic.Bool

	mu     sync.Mutex
	active *Request
}

// NewController wires a synthesizer to a player. poll <= 0 uses
// playback.DefaultPoll.
func NewController(synth Synthesizer, player Player, poll time.Duration) *Controller {
	if poll <= 0 {
		poll = playback.DefaultPoll
	}
	c := &Controller{synth: synth, player: player, poll: poll}
	c.enabled.Store(true)
	return c
}

// SetEnabled turns speaking on or off. Disabling stops the active request.
func (c *Controller) SetEnabled(on bool) {
	c.enabled.Store(on)
	if !on {
		c.Stop()
	}
}

// Enabled reports whether Speak does anything.
func (c *Controller) Enabled() bool { return c.enabled.Load() }

// Stop cancels the active request, if any.
func (c *Controller) Stop() {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r != nil {
		r.Stop()
	}
}

// Active returns the running request or nil.
func (c *Controller) Active() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && c.active.State() == Done {
		return nil
	}
	return c.active
}

// Speak starts speaking text and returns immediately. When the controller is
// disabled or the text has nothing speakable the returned request is
// already done.
func (c *Controller) Speak(ctx context.Context, input string) *Request {
	r := newRequest()
	if !c.Enabled() {
		r.setState(Done)
		close(r.done)
		return r
	}

	ctx, r.cancel = context.WithCancel(ctx)
	// Cancelling the caller's context stops the request like Stop does.
	r.unwatch = context.AfterFunc(ctx, r.stop.Set)

	c.mu.Lock()
	prev := c.active
	c.active = r
	c.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}

	r.setState(Splitting)
	sentences, err := text.Prepare(input)
	if err != nil {
		if !errors.Is(err, text.ErrEmptyText) {
			slog.Warn("prepare text", "error", err)
		}
		c.finish(r)
		return r
	}

	go c.run(ctx, r, sentences)
	return r
}

func (c *Controller) finish(r *Request) {
	r.unwatch()
	r.cancel()
	r.setState(Done)
	close(r.done)

	c.mu.Lock()
	if c.active == r {
		c.active = nil
	}
	c.mu.Unlock()
}

func (c *Controller) run(ctx context.Context, r *Request, sentences []string) {
	defer c.finish(r)

	start := time.Now()
	r.setState(Synthesizing)
	ch := make(chan utterance, Depth)

	var g errgroup.Group
	g.Go(func() error {
		defer close(ch)
		return c.produce(ctx, r, sentences, ch)
	})
	g.Go(func() error {
		return c.consume(r, ch)
	})
	_ = g.Wait()

	slog.Debug("speak finished",
		"sentences", len(sentences),
		"synthesized", r.Synthesized(),
		"played", r.Played(),
		"stopped", r.Stopped(),
		"elapsed", time.Since(start),
	)
}

func (c *Controller) produce(ctx context.Context, r *Request, sentences []string, ch chan<- utterance) error {
	for i, s := range sentences {
		if r.Stopped() {
			return nil
		}
		samples, err := c.synth.Synthesize(ctx, s)
		if err != nil {
			if r.Stopped() || ctx.Err() != nil {
				return nil
			}
			slog.Warn("synthesis failed, skipping sentence", "index", i, "sentence", s, "error", err)
			continue
		}
		r.synthesized.Add(1)
		select {
		case ch <- utterance{index: i, sentence: s, samples: samples}:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func (c *Controller) consume(r *Request, ch <-chan utterance) error {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for u := range ch {
		if r.Stopped() {
			// Keep draining so the producer never blocks on a full channel.
			continue
		}
		r.setState(Playing)
		req := playback.NewRequest(u.samples, r.stop)
		if err := c.player.Submit(req); err != nil {
			slog.Error("submit playback", "index", u.index, "error", err)
			continue
		}
	wait:
		for {
			select {
			case <-req.Done:
				if !r.Stopped() {
					r.played.Add(1)
				}
				break wait
			case <-ticker.C:
				if r.Stopped() {
					// The worker sees the same flag and aborts; wait for it so
					// the device is free for the next request.
					<-req.Done
					break wait
				}
			}
		}
		if !r.Stopped() {
			r.setState(Synthesizing)
		}
	}
	return nil
}
