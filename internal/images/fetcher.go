package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/lehigh-university-libraries/collager/internal/upload"
)

// Fetcher downloads remote images so they can be added to a session like uploads
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a new image fetcher
func NewFetcher(maxBytes int64) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// Fetch downloads every URL and returns them as upload files in the same order
func (f *Fetcher) Fetch(ctx context.Context, imageURLs []string) ([]upload.File, error) {
	files := make([]upload.File, 0, len(imageURLs))
	for _, imageURL := range imageURLs {
		file, err := f.fetchOne(ctx, imageURL)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, imageURL string) (upload.File, error) {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return upload.File{}, fmt.Errorf("invalid image URL: %s", imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return upload.File{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return upload.File{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return upload.File{}, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	// read one byte past the limit so the ingester can reject oversized files
	body := io.Reader(resp.Body)
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return upload.File{}, fmt.Errorf("failed to read image data: %w", err)
	}

	// Extract filename from URL
	filename := path.Base(u.Path)
	if filename == "" || filename == "/" || filename == "." {
		filename = "image.jpg"
	}

	slog.Info("Downloaded image", "url", imageURL, "bytes", len(data))
	return upload.File{Name: filename, Data: data}, nil
}
