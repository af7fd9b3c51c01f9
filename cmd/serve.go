package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/api-smoke/config"
	"github.com/angeloszaimis/api-smoke/internal/stubserver"
)

func newServeCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	var (
		addr    string
		message string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the static JSON echo server used as a local probe target",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := stubserver.New(addr, cfg.Environment, message)
			if err != nil {
				return &exitError{code: 1, msg: err.Error()}
			}

			log.Info("Stub server listening", slog.String("addr", addr))

			srvErrCh := make(chan error, 1)
			go func() {
				srvErrCh <- srv.Start()
			}()

			select {
			case <-cmd.Context().Done():
				log.Info("Shutting down gracefully...")
				return srv.Shutdown(context.Background())
			case err := <-srvErrCh:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address in host:port format")
	cmd.Flags().StringVar(&message, "message", "api-smoke stub", "message echoed in every response")

	return cmd
}
