package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/example/go-kokoro-tts/internal/text"
)

func newPhonemizeCmd() *cobra.Command {
	var (
		input   string
		showIDs bool
	)

	cmd := &cobra.Command{
		Use:   "phonemize [text]",
		Short: "Print the phonemes and token ids for text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				input = args[0]
			}
			raw, err := readText(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}

			fe, err := loadFrontend(cfg)
			if err != nil {
				return err
			}
			return phonemize(cmd.OutOrStdout(), cmd.ErrOrStderr(), fe, raw, showIDs)
		},
	}

	cmd.Flags().StringVar(&input, "text", "", "Text to phonemize (reads stdin if empty)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Also print vocabulary ids")

	return cmd
}

func phonemize(w, stats io.Writer, fe *frontend, raw string, showIDs bool) error {
	sentences, err := text.Prepare(raw)
	if err != nil {
		return err
	}

	total := 0
	for _, s := range sentences {
		ph := fe.resolver.Phonemize(s)
		ids, err := fe.vocab.Encode(ph)
		if err != nil {
			return fmt.Errorf("encode %q: %w", s, err)
		}
		total += len(ids)

		fmt.Fprintln(w, ph)
		if showIDs {
			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = fmt.Sprint(id)
			}
			fmt.Fprintln(w, strings.Join(parts, " "))
		}
	}

	fmt.Fprintf(stats, "%s sentences, %s tokens\n",
		humanize.Comma(int64(len(sentences))), humanize.Comma(int64(total)))
	return nil
}

// readText returns s, or all of r when s is empty.
func readText(r io.Reader, s string) (string, error) {
	if strings.TrimSpace(s) != "" {
		return s, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", text.ErrEmptyText
	}
	return string(b), nil
}
