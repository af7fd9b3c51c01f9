package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angeloszaimis/api-smoke/config"
	"github.com/angeloszaimis/api-smoke/pkg/logger"
)

// exitError carries the process exit code a failed command maps to:
// 1 for configuration errors, 2 for a hard health-check failure.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(cfg, log)

	if err := root.ExecuteContext(ctx); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.msg != "" {
				log.Error(ee.msg)
			}
			os.Exit(ee.code)
		}
		log.Error("command failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "api-smoke",
		Short:         "health checks and smoke tests for the API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	root.AddCommand(newHealthCmd(cfg, log))
	root.AddCommand(newSmokeCmd(cfg, log))
	root.AddCommand(newServeCmd(cfg, log))

	return root
}
