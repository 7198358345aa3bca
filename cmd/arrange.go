package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/collager/internal/arrangement"
	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/session"
	"github.com/lehigh-university-libraries/collager/internal/templates"
	"github.com/lehigh-university-libraries/collager/internal/upload"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newArrangeCmd() *cobra.Command {
	var provider string
	var model string
	var template string

	cmd := &cobra.Command{
		Use:   "arrange <image>...",
		Short: "Arrange image files into a collage with the configured oracle",
		Long: `Loads the given images, asks the arrangement oracle for a layout once,
and prints the resulting template and slot assignment as YAML.`,
		Example: `  # Random arrangement, no credentials needed
  collager arrange photos/*.jpg

  # Ask Gemini
  collager arrange --provider gemini photos/*.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if provider != "" {
				cfg.Provider = provider
				cfg.Model = config.DefaultModel(provider)
			}
			if model != "" {
				cfg.Model = model
			}
			// no one to show a spinner to
			cfg.MockLatency = 0

			oracle, err := arrangement.NewFromConfig(cfg, templates.Default())
			if err != nil {
				return err
			}

			sess, err := session.New("cli", session.Options{
				Template: models.TemplateKey(template),
				Oracle:   oracle,
				Timeout:  cfg.OracleTimeout,
				Ingester: upload.NewIngester(cfg.MaxUploadBytes),
			})
			if err != nil {
				return err
			}

			files := make([]upload.File, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				files = append(files, upload.File{Name: filepath.Base(path), Data: data})
			}

			images, err := sess.Upload(cmd.Context(), files)
			if err != nil {
				slog.Warn("Continuing without rejected files", "error", err)
			}
			slog.Info("Images loaded", "count", len(images))

			if err := sess.Arrange(cmd.Context()); err != nil {
				if errors.Is(err, arrangement.ErrEmptyPool) {
					return fmt.Errorf("%s", arrangement.EmptyPoolMessage)
				}
				return err
			}

			data, err := yaml.Marshal(sess.Snapshot())
			if err != nil {
				return fmt.Errorf("failed to marshal YAML: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Arrangement provider (random, gemini, openai, ollama); defaults to ARRANGE_PROVIDER")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().StringVar(&template, "template", "SQUARE", "Template shown before the arrangement is applied")

	return cmd
}
