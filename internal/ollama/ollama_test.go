package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/collager/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"{}"}`))
	}))
	defer srv.Close()

	o := New()
	o.URL = srv.URL

	text, err := o.ExtractText(context.Background(), providers.Config{
		Model:        "llava",
		Prompt:       "arrange",
		Images:       []providers.Image{{MimeType: "image/png", Data: []byte{1, 2, 3}}},
		JSONResponse: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
	assert.Equal(t, "llava", got["model"])
	assert.Equal(t, "json", got["format"])
	assert.Equal(t, false, got["stream"])
	assert.Equal(t, []interface{}{"AQID"}, got["images"])
}

func TestExtractTextNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	o := New()
	o.URL = srv.URL
	_, err := o.ExtractText(context.Background(), providers.Config{Model: "missing"})
	assert.ErrorContains(t, err, "404")
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("OLLAMA_URL", "")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	assert.Equal(t, "http://gpu-box:11434", New().URL)

	t.Setenv("OLLAMA_HOST", "")
	assert.Equal(t, "http://localhost:11434", New().URL)
}
