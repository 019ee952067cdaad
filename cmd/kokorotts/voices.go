package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/example/go-kokoro-tts/internal/voice"
)

func newVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List available voice packs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			catalog, err := voice.NewCatalog(cfg.Paths.VoicesDir)
			if err != nil {
				return err
			}
			return listVoices(cmd.OutOrStdout(), catalog.List(), cfg.TTS.Voice)
		},
	}
}

func listVoices(w io.Writer, voices []voice.Voice, current string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range voices {
		mark := " "
		if v.ID == current {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", mark, v.ID, humanize.Bytes(uint64(v.Size)))
	}
	return tw.Flush()
}
