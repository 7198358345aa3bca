package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/collager/internal/models"
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedImage is returned for files that cannot be decoded as JPEG, PNG or GIF
var ErrUnsupportedImage = errors.New("unsupported image")

// ErrTooLarge is returned for files over the size limit
var ErrTooLarge = errors.New("file too large")

const maxConcurrentDecodes = 4

// File is a single file of an upload batch
type File struct {
	Name string
	Data []byte
}

// Ingester decodes upload batches into pool images
type Ingester struct {
	MaxBytes int64
	// NewID generates image ids; defaults to random UUIDs
	NewID func() string
}

// NewIngester returns an ingester enforcing maxBytes per file
func NewIngester(maxBytes int64) *Ingester {
	return &Ingester{
		MaxBytes: maxBytes,
		NewID:    func() string { return uuid.NewString() },
	}
}

// Ingest decodes every file of the batch concurrently and returns only once all
// of them have finished. Images are returned in input order; files that fail
// are left out and reported together in the returned error.
func (in *Ingester) Ingest(ctx context.Context, files []File) ([]models.Image, error) {
	decoded := make([]*models.Image, len(files))
	failures := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDecodes)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := in.decode(f)
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", f.Name, err)
				return nil
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("upload interrupted: %w", err)
	}

	images := make([]models.Image, 0, len(files))
	for _, img := range decoded {
		if img != nil {
			images = append(images, *img)
		}
	}

	err := errors.Join(failures...)
	if err != nil {
		slog.Warn("Some files in the upload batch were rejected", "accepted", len(images), "total", len(files), "error", err)
	}
	return images, err
}

func (in *Ingester) decode(f File) (*models.Image, error) {
	if in.MaxBytes > 0 && int64(len(f.Data)) > in.MaxBytes {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrTooLarge, in.MaxBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	mimeType := "image/" + format
	return &models.Image{
		ID:       in.NewID(),
		Source:   DataURL(mimeType, f.Data),
		Name:     f.Name,
		MimeType: mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// DataURL encodes data as a base64 data URL
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its mime type and payload
func ParseDataURL(src string) (string, []byte, error) {
	const prefix = "data:"
	const marker = ";base64,"
	if !strings.HasPrefix(src, prefix) {
		return "", nil, fmt.Errorf("not a data URL")
	}
	idx := strings.Index(src, marker)
	if idx == -1 {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(src[idx+len(marker):])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL: %w", err)
	}
	return src[len(prefix):idx], data, nil
}
