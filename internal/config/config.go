package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Content provider identifiers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port    string
	Debug   bool
	LogFile string

	// Settings persistence
	DataDir string

	// Generative provider configuration
	Provider      string // "gemini" or "openai"
	APIKey        string // fallback credential; the settings store wins
	OpenAIBaseURL string
	TextModel     string
	TipModel      string
	ImageModel    string

	// Stock photo configuration
	UnsplashAccessKey string

	// Session lifecycle
	SessionTTL     time.Duration
	RequestTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		Debug:   getBoolEnv("DEBUG", false),
		LogFile: getEnv("LOG_FILE", ""),

		DataDir: getEnv("DATA_DIR", "data"),

		Provider:      strings.ToLower(getEnv("GENAI_PROVIDER", ProviderGemini)),
		APIKey:        getEnv("GENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		TextModel:     getEnv("GENAI_TEXT_MODEL", ""),
		TipModel:      getEnv("GENAI_TIP_MODEL", ""),
		ImageModel:    getEnv("GENAI_IMAGE_MODEL", ""),

		UnsplashAccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),

		SessionTTL:     getDurationEnv("SESSION_TTL", 2*time.Hour),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 3*time.Minute),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Provider != ProviderGemini && c.Provider != ProviderOpenAI {
		return fmt.Errorf("GENAI_PROVIDER must be 'gemini' or 'openai'")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
