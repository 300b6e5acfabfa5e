// ABOUTME: CLI command to run the HTTP query server
// ABOUTME: Loads the index snapshot once and serves /api/v1/ask until interrupted
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"corpusqa/internal/core"
	"corpusqa/internal/llm"
	"corpusqa/internal/server"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the question answering API over HTTP",
		Long: `Serve the question answering pipeline over HTTP.

Loads the index snapshot once at startup; rebuild the index and
restart to pick up a new corpus.

Endpoints:
  POST /api/v1/ask  {"question": "..."}
  GET  /healthz

Examples:
  corpusqa serve
  corpusqa serve --addr :9090`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("initializing OpenAI client: %w", err)
	}

	pipeline, err := core.NewPipeline(cfg, client, client)
	if err != nil {
		return fmt.Errorf("loading pipeline: %w", err)
	}

	srv := server.New(pipeline)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Listen(cfg.Server.Addr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
