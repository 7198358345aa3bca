package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "DEFAULT_TEMPLATE", "LOG_LEVEL", "ARRANGE_PROVIDER", "ARRANGE_MODEL",
		"ARRANGE_TEMPERATURE", "ARRANGE_TIMEOUT", "ARRANGE_MOCK_LATENCY", "ARRANGE_SUPERSEDE",
		"MAX_UPLOAD_BYTES", "OPENAI_MODEL", "OLLAMA_MODEL", "GEMINI_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "8888", cfg.Port)
	assert.Equal(t, "SQUARE", cfg.DefaultTemplate)
	assert.Equal(t, "random", cfg.Provider)
	assert.Equal(t, "", cfg.Model)
	assert.Equal(t, 60*time.Second, cfg.OracleTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.MockLatency)
	assert.True(t, cfg.Supersede)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARRANGE_PROVIDER", "OpenAI")
	t.Setenv("ARRANGE_TIMEOUT", "5s")
	t.Setenv("ARRANGE_SUPERSEDE", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.OracleTimeout)
	assert.False(t, cfg.Supersede)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARRANGE_TIMEOUT", "soon")
	t.Setenv("ARRANGE_SUPERSEDE", "maybe")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")
	t.Setenv("ARRANGE_TEMPERATURE", "hot")

	cfg := Load()
	assert.Equal(t, 60*time.Second, cfg.OracleTimeout)
	assert.True(t, cfg.Supersede)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 0.4, cfg.Temperature)
}

func TestDefaultModel(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, "mistral-small3.2:24b", DefaultModel("ollama"))
	assert.Equal(t, "gemini-2.5-flash", DefaultModel("gemini"))
	assert.Equal(t, "", DefaultModel("random"))

	t.Setenv("OLLAMA_MODEL", "llava")
	assert.Equal(t, "llava", DefaultModel("ollama"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
