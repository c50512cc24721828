// Package gemini implements the Gemini-shaped streaming adapter. There is no
// official wire client to lean on, so the adapter speaks raw HTTP to the
// streamGenerateContent endpoint and parses the SSE response itself, with a
// best-effort JSON decode that tolerates partial chunks arriving mid-line.
package gemini

import (
	"log/slog"
	"net/http"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/providers/ai"
)

const (
	providerName   = "gemini"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Config carries the construction-time settings for the adapter.
type Config struct {
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// Adapter implements [ai.StreamProvider] for Google's Gemini API.
type Adapter struct {
	apiKey      string
	baseURL     string
	maxTokens   int
	temperature float32

	client *http.Client
	mapper *llmerr.Mapper
	logger *slog.Logger
}

// New creates a Gemini adapter from the given config.
func New(config Config) *Adapter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		apiKey:      config.APIKey,
		baseURL:     baseURL,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		client:      http.DefaultClient,
		mapper:      llmerr.NewMapper(nil),
		logger:      slog.Default(),
	}
}

// WithHTTPClient sets the HTTP client used for outbound requests.
func (adapter *Adapter) WithHTTPClient(client *http.Client) *Adapter {
	adapter.client = client
	return adapter
}

// WithMapper sets the error mapper applied at the adapter boundary.
func (adapter *Adapter) WithMapper(mapper *llmerr.Mapper) *Adapter {
	adapter.mapper = mapper
	return adapter
}

// WithLogger sets the structured logger.
func (adapter *Adapter) WithLogger(logger *slog.Logger) *Adapter {
	adapter.logger = logger
	return adapter
}

// Name returns the provider tag used in error mapping and logging.
func (adapter *Adapter) Name() string {
	return providerName
}

var _ ai.StreamProvider = (*Adapter)(nil)
