package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/pipeline"
	"github.com/example/go-kokoro-tts/internal/playback"
)

// speaker owns the playback worker behind a pipeline controller.
type speaker struct {
	*pipeline.Controller
	worker *playback.Worker
}

func (s *speaker) Close() error {
	s.Stop()
	return s.worker.Close()
}

func pollInterval(cfg config.Config) time.Duration {
	if cfg.TTS.PollMillis <= 0 {
		return playback.DefaultPoll
	}
	return time.Duration(cfg.TTS.PollMillis) * time.Millisecond
}

// openDevice opens the system audio output. The playback worker calls it
// from its locked thread.
func openDevice() (playback.Sink, error) {
	sink, err := playback.NewOtoSink(audio.SampleRate, 0)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	return sink, nil
}

// newSpeaker starts the playback worker behind a controller. A device that
// fails to open is logged by the worker and requests complete unplayed.
func newSpeaker(cfg config.Config, synth pipeline.Synthesizer, open playback.Opener) *speaker {
	poll := pollInterval(cfg)
	w := playback.NewWorker(open, poll)
	c := pipeline.NewController(synth, w, poll)
	c.SetEnabled(cfg.TTS.Enabled)
	return &speaker{Controller: c, worker: w}
}

func newSpeakCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "speak [text]",
		Short: "Speak text on the default audio device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			cfg.TTS.Enabled = true

			if len(args) == 1 {
				input = args[0]
			}
			raw, err := readText(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}

			st, err := buildStack(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			sp := newSpeaker(cfg, st.svc, openDevice)
			defer func() {
				if err := sp.Close(); err != nil {
					slog.Warn("closing playback", "error", err)
				}
			}()

			ctx, stop := signal.NotifyContext(synthContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return speak(ctx, sp.Controller, raw)
		},
	}

	cmd.Flags().StringVar(&input, "text", "", "Text to speak (reads stdin if empty)")

	return cmd
}

// speak runs one request to completion. Cancelling ctx stops playback and
// is not an error.
func speak(ctx context.Context, c *pipeline.Controller, raw string) error {
	req := c.Speak(ctx, raw)
	req.Wait()

	slog.Info("speak finished",
		"synthesized", req.Synthesized(),
		"played", req.Played(),
		"stopped", req.Stopped(),
	)
	if req.Stopped() {
		slog.Debug("speech interrupted", "cause", context.Cause(ctx))
		return nil
	}
	if req.Played() == 0 {
		return fmt.Errorf("nothing was spoken")
	}
	return nil
}
