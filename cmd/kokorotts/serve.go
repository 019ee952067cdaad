package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/go-kokoro-tts/internal/server"
)

func newServeCmd() *cobra.Command {
	var noPlayback bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Kokoro TTS HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			st, err := buildStack(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(cfg, st.svc, st.catalog)

			if !noPlayback {
				sp := newSpeaker(cfg, st.svc, openDevice)
				defer func() {
					if err := sp.Close(); err != nil {
						slog.Warn("closing playback", "error", err)
					}
				}()
				srv.WithSpeaker(sp.Controller)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := st.catalog.Watch(ctx); err != nil {
					slog.Warn("voice directory not watched", "error", err)
				}
				return nil
			})
			g.Go(func() error { return srv.Start(ctx) })
			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&noPlayback, "no-playback", false, "Disable the local /speak endpoints")

	return cmd
}
