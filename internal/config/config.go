// Package config builds the process configuration from environment
// variables, once, at startup. The resulting struct is passed into
// constructors explicitly; nothing reads the environment inside call paths.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full gateway configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string
	// APITokens is the set of accepted bearer tokens for API access.
	APITokens []string
	// ModelsFile is the path to the TOML model registry.
	ModelsFile string

	// Provider credentials and endpoint overrides.
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	GeminiAPIKey     string
	GeminiBaseURL    string

	// Generation parameters applied to every provider request.
	MaxTokens   int
	Temperature float32

	// Transport timeouts for provider calls.
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// FromEnv reads the configuration from the environment, applying defaults
// for everything except credentials.
func FromEnv() (*Config, error) {
	maxTokens, err := envInt("LLM_MAX_TOKENS", 2000)
	if err != nil {
		return nil, err
	}
	temperature, err := envFloat("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return nil, err
	}
	connectTimeout, err := envDuration("LLM_CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := envDuration("LLM_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:        envString("SERVER_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APITokens:   envList("API_TOKENS"),
		ModelsFile:  envString("MODELS_FILE", "configs/models.toml"),

		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_API_BASE_URL"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_API_BASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:    os.Getenv("GEMINI_API_BASE_URL"),

		MaxTokens:      maxTokens,
		Temperature:    temperature,
		ConnectTimeout: connectTimeout,
		RequestTimeout: requestTimeout,
	}, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var values []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return value, nil
}

func envFloat(key string, fallback float32) (float32, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return float32(value), nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return value, nil
}
