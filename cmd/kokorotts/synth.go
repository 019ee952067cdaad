package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/text"
)

type dspOptions struct {
	normalize bool
	dcBlock   bool
	fadeInMS  float64
	fadeOutMS float64
}

// hooks returns the post-processing steps applied to the joined output.
func (o dspOptions) hooks() []audio.Hook {
	var hooks []audio.Hook
	if o.dcBlock {
		hooks = append(hooks, func(s []float32) []float32 { return audio.DCBlock(s, audio.SampleRate) })
	}
	if o.fadeInMS > 0 {
		ms := o.fadeInMS
		hooks = append(hooks, func(s []float32) []float32 { return audio.FadeIn(s, audio.SampleRate, ms) })
	}
	if o.fadeOutMS > 0 {
		ms := o.fadeOutMS
		hooks = append(hooks, func(s []float32) []float32 { return audio.FadeOut(s, audio.SampleRate, ms) })
	}
	if o.normalize {
		hooks = append(hooks, audio.PeakNormalize)
	}
	return hooks
}

func newSynthCmd() *cobra.Command {
	var (
		input string
		out   string
		dsp   dspOptions
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize text to a WAV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			raw, err := readText(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			sentences, err := text.Prepare(raw)
			if err != nil {
				return err
			}

			st, err := buildStack(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			start := time.Now()
			samples, err := st.svc.SynthesizeAll(synthContext(cmd), sentences)
			if err != nil {
				return err
			}
			samples = audio.ApplyHooks(samples, dsp.hooks()...)

			slog.Info("synthesized",
				"sentences", len(sentences),
				"samples", len(samples),
				"audio", time.Duration(len(samples))*time.Second/audio.SampleRate,
				"elapsed", time.Since(start).Round(time.Millisecond),
			)

			return writeOutput(cmd.OutOrStdout(), out, samples)
		},
	}

	cmd.Flags().StringVar(&input, "text", "", "Text to synthesize (reads stdin if empty)")
	cmd.Flags().StringVar(&out, "out", "out.wav", "Output WAV path, or - for stdout")
	cmd.Flags().BoolVar(&dsp.normalize, "normalize", false, "Peak-normalize output")
	cmd.Flags().BoolVar(&dsp.dcBlock, "dc-block", false, "Remove DC offset")
	cmd.Flags().Float64Var(&dsp.fadeInMS, "fade-in-ms", 0, "Fade-in duration in milliseconds")
	cmd.Flags().Float64Var(&dsp.fadeOutMS, "fade-out-ms", 0, "Fade-out duration in milliseconds")

	return cmd
}

func writeOutput(stdout io.Writer, out string, samples []float32) error {
	if out == "-" {
		data, err := audio.EncodeWAV(samples)
		if err != nil {
			return err
		}
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if err := audio.WriteWAVFile(out, samples); err != nil {
		return err
	}
	slog.Info("wrote", "path", out)
	return nil
}

// synthContext is the command context, or Background when cobra has none.
func synthContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
