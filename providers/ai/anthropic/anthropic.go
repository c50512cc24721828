// Package anthropic implements the Anthropic-shaped streaming adapter: the
// Messages API consumed over SSE, with text_delta events normalized into the
// shared token stream.
package anthropic

import (
	"log/slog"
	"net/http"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/internal/utils"
	"github.com/minhuy206/chatsapp/providers/ai"
)

const (
	providerName     = "anthropic"
	defaultBaseURL   = "https://api.anthropic.com/v1"
	messagesEndpoint = "/messages"
	apiVersion       = "2023-06-01"

	// Anthropic requires max_tokens on every request; used when the
	// configured value is zero.
	fallbackMaxTokens = 2000
)

// Config carries the construction-time settings for the adapter.
type Config struct {
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// Adapter implements [ai.StreamProvider] for Anthropic's Messages API.
type Adapter struct {
	apiKey      string
	baseURL     string
	maxTokens   int
	temperature float32

	client *http.Client
	mapper *llmerr.Mapper
	logger *slog.Logger
}

// New creates an Anthropic adapter from the given config.
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

// buildHeaders returns the Anthropic authentication and version headers.
// Anthropic authenticates via x-api-key rather than a Bearer token.
func (adapter *Adapter) buildHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "x-api-key", Value: adapter.apiKey},
		{Key: "anthropic-version", Value: apiVersion},
	}
}

var _ ai.StreamProvider = (*Adapter)(nil)
