package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings read from the environment
type Config struct {
	Port            string
	DefaultTemplate string
	LogLevel        string

	// Provider selects the arrangement oracle: random, gemini, openai or ollama
	Provider      string
	Model         string
	Temperature   float64
	OracleTimeout time.Duration
	// MockLatency delays the random oracle to mimic a remote call
	MockLatency time.Duration
	// Supersede cancels an in-flight arrangement when a new one is requested;
	// otherwise the second request is rejected while the first is pending.
	Supersede bool

	MaxUploadBytes int64
}

// Load reads the configuration from environment variables, applying defaults
func Load() *Config {
	provider := strings.ToLower(getEnv("ARRANGE_PROVIDER", "random"))
	return &Config{
		Port:            getEnv("PORT", "8888"),
		DefaultTemplate: getEnv("DEFAULT_TEMPLATE", "SQUARE"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Provider:        provider,
		Model:           getEnv("ARRANGE_MODEL", DefaultModel(provider)),
		Temperature:     getEnvAsFloat("ARRANGE_TEMPERATURE", 0.4),
		OracleTimeout:   getEnvAsDuration("ARRANGE_TIMEOUT", 60*time.Second),
		MockLatency:     getEnvAsDuration("ARRANGE_MOCK_LATENCY", 1500*time.Millisecond),
		Supersede:       getEnvAsBool("ARRANGE_SUPERSEDE", true),
		MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
	}
}

// DefaultModel returns the model used for a provider when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return getEnv("OPENAI_MODEL", "gpt-4o")
	case "ollama":
		return getEnv("OLLAMA_MODEL", "mistral-small3.2:24b")
	case "gemini":
		return getEnv("GEMINI_MODEL", "gemini-2.5-flash")
	default:
		return ""
	}
}

// SlogLevel maps the configured log level onto slog
func (c *Config) SlogLevel() slog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a level name onto slog, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil && v > 0 {
			return v
		}
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		slog.Warn("Ignoring invalid float setting", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
		slog.Warn("Ignoring invalid boolean setting", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if v, err := time.ParseDuration(value); err == nil && v >= 0 {
			return v
		}
		slog.Warn("Ignoring invalid duration setting", "key", key, "value", value)
	}
	return defaultValue
}
