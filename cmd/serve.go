package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/collager/internal/arrangement"
	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/handlers"
	"github.com/lehigh-university-libraries/collager/internal/templates"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the collage editor",
		Long: `Starts the Collager web interface and API on the specified port.

The arrangement oracle is selected with ARRANGE_PROVIDER (random, gemini,
openai or ollama). The random oracle needs no credentials.`,
		Example: `  # Start server on default port 8888
  collager serve

  # Start server on custom port with Gemini arrangements
  ARRANGE_PROVIDER=gemini collager serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			oracle, err := arrangement.NewFromConfig(cfg, templates.Default())
			if err != nil {
				return fmt.Errorf("failed to configure arrangement oracle: %w", err)
			}
			handler := handlers.New(cfg, oracle)

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handler.Routes(),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Collager interface available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on (overrides PORT)")

	return cmd
}
