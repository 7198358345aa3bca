package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "collager",
		Short: "Photo collage editor with LLM-assisted smart arrangement",
		Long: `Collager hosts photo collage editing sessions.

Upload photos, pick a template, drag photos into its slots, or let a
vision-capable LLM (Gemini, OpenAI or Ollama) arrange them for you.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg := config.Load()
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newTemplatesCmd())
	cmd.AddCommand(newArrangeCmd())

	return cmd
}
