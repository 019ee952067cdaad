package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/go-kokoro-tts/internal/assets"
)

func newDownloadCmd() *cobra.Command {
	var (
		outDir   string
		repo     string
		voices   []string
		hfToken  string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the model, vocabulary, dictionary and voice packs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if len(voices) == 0 {
				voices = []string{cfg.TTS.Voice}
			}
			if hfToken == "" {
				hfToken = os.Getenv("HF_TOKEN")
			}

			m, err := assets.KokoroManifest(repo, voices)
			if err != nil {
				return err
			}
			return assets.Download(synthContext(cmd), m, assets.Options{
				OutDir:   outDir,
				HFToken:  hfToken,
				Parallel: parallel,
				Stdout:   cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory to download into")
	cmd.Flags().StringVar(&repo, "repo", assets.DefaultRepo, "Hugging Face repo with the ONNX model")
	cmd.Flags().StringSliceVar(&voices, "voices", nil, "Voice packs to fetch (defaults to the configured voice)")
	cmd.Flags().StringVar(&hfToken, "hf-token", "", "Hugging Face token (defaults to $HF_TOKEN)")
	cmd.Flags().IntVar(&parallel, "parallel", 2, "Concurrent downloads")

	return cmd
}
