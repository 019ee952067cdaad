package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/go-kokoro-tts/internal/config"
	"github.com/example/go-kokoro-tts/internal/doctor"
	"github.com/example/go-kokoro-tts/internal/lexicon"
	"github.com/example/go-kokoro-tts/internal/onnx"
	"github.com/example/go-kokoro-tts/internal/tokenizer"
)

func newDoctorCmd() *cobra.Command {
	var skipRuntime bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local runtime, model and data checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			result := doctor.Run(doctorConfig(cfg, skipRuntime), cmd.OutOrStdout())
			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}
				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "doctor checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipRuntime, "skip-runtime", false, "Skip the ONNX Runtime check")

	return cmd
}

func doctorConfig(cfg config.Config, skipRuntime bool) doctor.Config {
	return doctor.Config{
		Runtime: func() (string, string, error) {
			info, err := onnx.DetectRuntime(cfg.Runtime)
			if err != nil {
				return "", "", err
			}
			return info.LibraryPath, info.Version, nil
		},
		SkipRuntime: skipRuntime,
		ModelPath:   cfg.Paths.ModelPath,
		Dictionary: func() (int, error) {
			lex, err := lexicon.Load(cfg.Paths.DictionaryPath)
			if err != nil {
				return 0, err
			}
			return lex.Dictionary().Len(), nil
		},
		Vocabulary: func() (int, error) {
			v, err := tokenizer.LoadVocabulary(cfg.Paths.VocabularyPath)
			if err != nil {
				return 0, err
			}
			return v.Len(), nil
		},
		VoicesDir: cfg.Paths.VoicesDir,
		Voice:     cfg.TTS.Voice,
	}
}
