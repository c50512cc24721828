// Package openai implements the OpenAI-shaped streaming adapter: the chat
// completions endpoint consumed over SSE, with each chunk's
// choices[0].delta.content normalized into the shared token stream.
package openai

import (
	"log/slog"
	"net/http"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/providers/ai"
)

const (
	providerName            = "openai"
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
)

// Config carries the construction-time settings for the adapter. Values are
// read once from the process configuration; nothing is looked up from the
// environment inside call paths.
type Config struct {
	APIKey      string
	BaseURL     string  // Defaults to the public OpenAI API when empty
	MaxTokens   int     // Applied to every request
	Temperature float32 // Applied to every request
}

// Adapter implements [ai.StreamProvider] for OpenAI-compatible APIs.
type Adapter struct {
	apiKey      string
	baseURL     string
	maxTokens   int
	temperature float32

	client *http.Client
	mapper *llmerr.Mapper
	logger *slog.Logger
}

// New creates an OpenAI adapter from the given config. The HTTP client,
// error mapper, and logger can be overridden with the With* methods.
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
