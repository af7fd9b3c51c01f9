package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/api-smoke/config"
	"github.com/angeloszaimis/api-smoke/internal/checker"
	"github.com/angeloszaimis/api-smoke/internal/endpoint"
)

func newHealthCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	var (
		rawURL         string
		expectedStatus int
		retries        int
		timeoutSeconds float64
		backoff        float64
		token          string
		jsonContains   string
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "check a single URL with retries and exponential backoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := checker.Options{
				BaseURL:   rawURL,
				Token:     token,
				UserAgent: cfg.UserAgent,
				Timeout:   time.Duration(timeoutSeconds * float64(time.Second)),
				Retries:   retries,
				Backoff:   backoff,
				Logger:    log,
			}
			if jsonContains != "" {
				opts.Body = checker.JSONContains(jsonContains)
			}

			chk, err := checker.New(opts)
			if err != nil {
				return &exitError{code: 1, msg: err.Error()}
			}

			ep := endpoint.New("")
			ep.ExpectedStatus = expectedStatus

			res := chk.Check(ep)
			if res.OK {
				fmt.Println("Health check passed")
				return nil
			}

			fmt.Fprintln(os.Stderr, "Health check failed after retries")
			return &exitError{code: 2, msg: res.Message}
		},
	}

	cmd.Flags().StringVar(&rawURL, "url", cfg.BaseURL, "URL to check (http(s)://)")
	cmd.Flags().IntVar(&expectedStatus, "expected-status", endpoint.DefaultExpectedStatus, "expected HTTP status code")
	cmd.Flags().IntVar(&retries, "retries", cfg.Check.Retries, "maximum attempts")
	cmd.Flags().Float64Var(&timeoutSeconds, "timeout", cfg.Check.TimeoutSeconds, "per-attempt timeout in seconds")
	cmd.Flags().Float64Var(&backoff, "backoff", cfg.Check.Backoff, "backoff multiplier between attempts")
	cmd.Flags().StringVar(&token, "bearer-token", cfg.BearerToken, "optional bearer token for the Authorization header")
	cmd.Flags().StringVar(&jsonContains, "json-contains", "", "substring expected in the JSON response body")

	return cmd
}
