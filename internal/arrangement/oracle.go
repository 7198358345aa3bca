package arrangement

import (
	"context"
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/gemini"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/ollama"
	"github.com/lehigh-university-libraries/collager/internal/openai"
	"github.com/lehigh-university-libraries/collager/internal/templates"
)

var (
	// ErrEmptyPool is returned when an arrangement is requested before any image was uploaded
	ErrEmptyPool = errors.New("no images to arrange")
	// ErrBusy is returned when an arrangement is already in flight and superseding is disabled
	ErrBusy = errors.New("an arrangement is already in progress")
	// ErrSuperseded is returned to a caller whose arrangement was replaced by a newer request
	ErrSuperseded = errors.New("arrangement superseded by a newer request")
	// ErrMalformedResponse is returned when an oracle answer cannot be parsed
	ErrMalformedResponse = errors.New("malformed arrangement response")
)

// Oracle proposes a template and slot assignment for a list of image sources
type Oracle interface {
	Arrange(ctx context.Context, sources []string) (models.Candidate, error)
}

// NewFromConfig builds the oracle selected by cfg.Provider
func NewFromConfig(cfg *config.Config, catalog *templates.Catalog) (Oracle, error) {
	switch cfg.Provider {
	case "", "random":
		return NewRandomOracle(catalog, cfg.MockLatency), nil
	case "gemini":
		return NewLLMOracle(gemini.New(), catalog, cfg.Model, cfg.Temperature), nil
	case "openai":
		return NewLLMOracle(openai.New(), catalog, cfg.Model, cfg.Temperature), nil
	case "ollama":
		return NewLLMOracle(ollama.New(), catalog, cfg.Model, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
