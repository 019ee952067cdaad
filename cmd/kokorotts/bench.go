package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-kokoro-tts/internal/audio"
	"github.com/example/go-kokoro-tts/internal/bench"
	"github.com/example/go-kokoro-tts/internal/text"
)

const benchText = "The quick brown fox jumps over the lazy dog. It was 3.5 miles to the nearest town."

func newBenchCmd() *cobra.Command {
	var (
		input     string
		runs      int
		format    string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure synthesis speed as a real-time factor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}

			sentences, err := text.Prepare(input)
			if err != nil {
				return err
			}

			// Cached waveforms would make every warm run free.
			cfg.Cache.Entries = 0
			cfg.Cache.Dir = ""

			st, err := buildStack(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			results, err := bench.Run(synthContext(cmd), st.svc, sentences, runs, audio.SampleRate)
			if err != nil {
				return err
			}
			stats := bench.ComputeStats(results)

			if format == "json" {
				if err := bench.FormatJSON(results, stats, cmd.OutOrStdout()); err != nil {
					return err
				}
			} else {
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}
			return bench.CheckRTFThreshold(stats.MeanRTF, threshold)
		},
	}

	cmd.Flags().StringVar(&input, "text", benchText, "Text to synthesize on each run")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of runs; the first is reported as cold")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&threshold, "rtf-threshold", 0, "Fail if mean warm RTF exceeds this (0 disables)")

	return cmd
}
