package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicebook/internal/logger"
	"invoicebook/pkg/client"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "invoicectl - list, create and edit invoices from the terminal",
	Long: `invoicectl talks to the invoice API. It lists and searches invoices,
creates new ones from explicit amounts or a daily rate, edits existing ones
and shows the current quarter dashboard with totals.

Environment variables:
  API_URL   - Base URL of the API (default: http://localhost:8080)
  LOG_LEVEL - Log level for diagnostics written to stderr (default: warn)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := logger.DefaultConfig()
		cfg.Level = envOr("LOG_LEVEL", "warn")
		cfg.Output = "stderr"
		return logger.Setup(cfg)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log := logger.WithComponent("cmd")
		log.Debug().Err(err).Msg("Command execution failed")
		fmt.Fprintln(os.Stderr, renderBanner(bannerOf(err)))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-url", envOr("API_URL", client.DefaultBaseURL), "Base URL of the invoice API")
	rootCmd.PersistentFlags().Duration("timeout", 15*time.Second, "Request timeout")
}

// newSession builds a session from the persistent flags.
func newSession(cmd *cobra.Command) *client.Session {
	apiURL, _ := cmd.Flags().GetString("api-url")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	c := client.New(apiURL)
	c.HTTP.Timeout = timeout
	return client.NewSession(c)
}

// sessionError carries the banner a session set for a failed call.
type sessionError struct {
	banner string
	err    error
}

func (e *sessionError) Error() string { return e.err.Error() }
func (e *sessionError) Unwrap() error { return e.err }

// failed attaches session's banner to err.
func failed(session *client.Session, err error) error {
	if session.Banner == "" {
		return err
	}
	return &sessionError{banner: session.Banner, err: err}
}

// bannerOf is the message shown for a failed command.
func bannerOf(err error) string {
	var serr *sessionError
	if errors.As(err, &serr) {
		return serr.banner
	}
	return err.Error()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
