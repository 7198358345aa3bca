package arrangement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/collager/internal/models"
	"github.com/lehigh-university-libraries/collager/internal/providers"
	"github.com/lehigh-university-libraries/collager/internal/templates"
	"github.com/lehigh-university-libraries/collager/internal/upload"
)

// LLMOracle asks a vision-capable model to choose a template and place the images
type LLMOracle struct {
	provider    providers.Provider
	catalog     *templates.Catalog
	model       string
	temperature float64
}

// NewLLMOracle returns an oracle backed by provider
func NewLLMOracle(provider providers.Provider, catalog *templates.Catalog, model string, temperature float64) *LLMOracle {
	return &LLMOracle{
		provider:    provider,
		catalog:     catalog,
		model:       model,
		temperature: temperature,
	}
}

func (o *LLMOracle) Arrange(ctx context.Context, sources []string) (models.Candidate, error) {
	if len(sources) == 0 {
		return models.Candidate{}, ErrEmptyPool
	}

	images := make([]providers.Image, 0, len(sources))
	for i, src := range sources {
		mimeType, data, err := upload.ParseDataURL(src)
		if err != nil {
			slog.Warn("Image source is not attachable, sending index only", "index", i, "error", err)
			continue
		}
		images = append(images, providers.Image{MimeType: mimeType, Data: data})
	}

	raw, err := o.provider.ExtractText(ctx, providers.Config{
		Model:        o.model,
		Temperature:  o.temperature,
		Prompt:       o.buildPrompt(sources),
		Images:       images,
		JSONResponse: true,
	})
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to call arrangement model: %w", err)
	}

	candidate, err := parseResponse(raw, sources)
	if err != nil {
		return models.Candidate{}, err
	}
	slog.Info("Arrangement model responded", "model", o.model, "template", candidate.TemplateKey, "entries", len(candidate.Arrangement))
	return candidate, nil
}

func (o *LLMOracle) buildPrompt(sources []string) string {
	var b strings.Builder
	b.WriteString(`You are a professional visual designer creating a photo collage.
Analyze the provided images and determine the best layout.
Choose the best template and assign each image to a slot in that template.
Consider image orientation, colors, and subjects for a balanced and aesthetic composition.
If there are fewer images than slots you may reuse an image.

TEMPLATES:
`)
	for _, t := range o.catalog.All() {
		fmt.Fprintf(&b, "- %s (%s, aspect ratio %s): slot ids %v\n", t.Key, t.Name, t.AspectRatio, t.SlotIDs())
	}

	b.WriteString("\nINPUT IMAGES (by index, attached in the same order):\n")
	for i, src := range sources {
		fmt.Fprintf(&b, "Image %d: %s\n", i, preview(src))
	}

	b.WriteString(`
OUTPUT FORMAT:
Respond with ONLY a JSON object in the following format:

{
  "templateKey": "one of the template keys above",
  "arrangement": [
    {"slotId": 1, "imageIndex": 0, "reasoning": "why this image fits this slot"}
  ]
}`)
	return b.String()
}

func preview(src string) string {
	if len(src) > 50 {
		return src[:50] + "..."
	}
	return src
}

type modelResponse struct {
	TemplateKey models.TemplateKey `json:"templateKey"`
	Arrangement []struct {
		SlotID     int    `json:"slotId"`
		ImageIndex *int   `json:"imageIndex"`
		Reasoning  string `json:"reasoning"`
	} `json:"arrangement"`
}

// parseResponse maps the model's index-based answer back onto image sources.
// Entries with a missing or out-of-range index are dropped.
func parseResponse(raw string, sources []string) (models.Candidate, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var resp modelResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return models.Candidate{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.TemplateKey == "" {
		return models.Candidate{}, fmt.Errorf("%w: missing templateKey", ErrMalformedResponse)
	}

	candidate := models.Candidate{TemplateKey: resp.TemplateKey}
	for _, entry := range resp.Arrangement {
		if entry.ImageIndex == nil || *entry.ImageIndex < 0 || *entry.ImageIndex >= len(sources) {
			slog.Debug("Dropping arrangement entry with invalid image index", "slot_id", entry.SlotID)
			continue
		}
		candidate.Arrangement = append(candidate.Arrangement, models.ArrangementEntry{
			SlotID:      entry.SlotID,
			ImageSource: sources[*entry.ImageIndex],
		})
	}
	return candidate, nil
}
