package providers

import (
	"context"
)

// Image is an inline image attached to a prompt
type Image struct {
	MimeType string
	Data     []byte
}

// Config represents the configuration for an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	Images      []Image
	// JSONResponse asks the provider to constrain its output to JSON
	JSONResponse bool
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}
