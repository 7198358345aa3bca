package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/collager/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParts(t *testing.T) {
	got := parts(providers.Config{
		Prompt: "arrange these",
		Images: []providers.Image{{MimeType: "image/png", Data: []byte{1}}},
	})

	require.Len(t, got, 2)
	assert.Equal(t, genai.Text("arrange these"), got[0])
	blob, ok := got[1].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.Equal(t, []byte{1}, blob.Data)
}

func TestExtractTextRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := New().ExtractText(context.Background(), providers.Config{Prompt: "hi"})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}
