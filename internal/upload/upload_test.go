package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 3, 2), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func sequentialIDs() func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("img-%d", atomic.AddInt64(&n, 1))
	}
}

func TestIngestBatch(t *testing.T) {
	in := NewIngester(1 << 20)

	images, err := in.Ingest(context.Background(), []File{
		{Name: "beach.png", Data: pngBytes(t, 4, 3)},
		{Name: "party.gif", Data: gifBytes(t)},
	})
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, "beach.png", images[0].Name)
	assert.Equal(t, "image/png", images[0].MimeType)
	assert.Equal(t, 4, images[0].Width)
	assert.Equal(t, 3, images[0].Height)
	assert.Contains(t, images[0].Source, "data:image/png;base64,")

	assert.Equal(t, "party.gif", images[1].Name)
	assert.Equal(t, "image/gif", images[1].MimeType)

	assert.NotEqual(t, images[0].ID, images[1].ID)
}

func TestIngestSameNameGetsDistinctIDs(t *testing.T) {
	in := NewIngester(0)
	data := pngBytes(t, 1, 1)

	files := make([]File, 20)
	for i := range files {
		files[i] = File{Name: "IMG_0001.png", Data: data}
	}
	images, err := in.Ingest(context.Background(), files)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, img := range images {
		assert.False(t, seen[img.ID], "duplicate id %s", img.ID)
		seen[img.ID] = true
	}
}

func TestIngestPartialFailureKeepsOrder(t *testing.T) {
	in := NewIngester(1 << 20)
	in.NewID = sequentialIDs()

	images, err := in.Ingest(context.Background(), []File{
		{Name: "a.png", Data: pngBytes(t, 1, 1)},
		{Name: "notes.txt", Data: []byte("not an image")},
		{Name: "c.png", Data: pngBytes(t, 2, 2)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Contains(t, err.Error(), "notes.txt")

	require.Len(t, images, 2)
	assert.Equal(t, "a.png", images[0].Name)
	assert.Equal(t, "c.png", images[1].Name)
}

func TestIngestRejectsLargeFiles(t *testing.T) {
	in := NewIngester(10)

	images, err := in.Ingest(context.Background(), []File{{Name: "big.png", Data: pngBytes(t, 8, 8)}})
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, images)
}

func TestIngestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images, err := NewIngester(0).Ingest(ctx, []File{{Name: "a.png", Data: pngBytes(t, 1, 1)}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, images)
}

func TestDataURLRoundTrip(t *testing.T) {
	src := DataURL("image/png", []byte{1, 2, 3})
	assert.Equal(t, "data:image/png;base64,AQID", src)

	mimeType, data, err := ParseDataURL(src)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, _, err = ParseDataURL("https://example.com/a.png")
	assert.Error(t, err)
	_, _, err = ParseDataURL("data:image/png,raw")
	assert.Error(t, err)
}
