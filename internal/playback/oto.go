//go:build !nocgo

package playback

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/example/go-kokoro-tts/internal/audio"
)

// oto allows one context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func otoContext(sampleRate int, buffer time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: audio.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   buffer,
		})
		if err != nil {
			otoErr = fmt.Errorf("create audio context: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// OtoSink plays through the system audio device.
type OtoSink struct {
	ctx *oto.Context
}

// NewOtoSink opens the audio device at sampleRate. buffer is the device
// buffer length; 0 uses the driver default.
func NewOtoSink(sampleRate int, buffer time.Duration) (*OtoSink, error) {
	ctx, err := otoContext(sampleRate, buffer)
	if err != nil {
		return nil, err
	}
	return &OtoSink{ctx: ctx}, nil
}

func (s *OtoSink) Play(samples []float32) (Handle, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, fmt.Errorf("audio device: %w", err)
	}
	// The PCM buffer stays referenced by the reader until the player closes.
	p := s.ctx.NewPlayer(bytes.NewReader(audio.PCM16(samples)))
	p.Play()
	return &otoHandle{player: p}, nil
}

// Close suspends the device. The context itself lives for the process.
func (s *OtoSink) Close() error {
	return s.ctx.Suspend()
}

type otoHandle struct {
	player *oto.Player
}

func (h *otoHandle) Playing() bool { return h.player.IsPlaying() }

func (h *otoHandle) Stop() { h.player.Pause() }

func (h *otoHandle) Close() error { return h.player.Close() }
