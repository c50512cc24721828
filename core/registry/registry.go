// Package registry maps model identifiers to provider adapters. Resolution
// consults an explicit model registry first (loaded from a TOML file) and
// falls back to name-prefix heuristics, with OpenAI as the documented final
// default.
package registry

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/providers/ai"
)

// ProviderName is the closed set of provider tags an adapter can be
// registered under.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGemini    ProviderName = "gemini"
)

// ModelEntry is one explicit registry record: a model name bound to a
// provider, with an optional context-size budget used for history trimming.
type ModelEntry struct {
	Name          string `toml:"name"`
	Provider      string `toml:"provider"`
	Enabled       bool   `toml:"enabled"`
	ContextTokens int    `toml:"context_tokens"`
}

// modelsFile is the TOML document shape: a list of [[models]] tables.
type modelsFile struct {
	Models []ModelEntry `toml:"models"`
}

// LoadEntries reads model entries from a TOML file. A missing file is not an
// error: resolution then relies on prefix heuristics alone.
func LoadEntries(path string) ([]ModelEntry, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file modelsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("registry: decode %s: %w", path, err)
	}
	return file.Models, nil
}

// Registry resolves model names to adapters. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	adapters map[ProviderName]ai.StreamProvider
	models   map[string]ModelEntry
	logger   *slog.Logger
}

// New builds a Registry over the given adapters and explicit model entries.
// Disabled entries are ignored. A nil logger falls back to slog.Default().
func New(adapters map[ProviderName]ai.StreamProvider, entries []ModelEntry, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	models := make(map[string]ModelEntry, len(entries))
	for _, entry := range entries {
		if !entry.Enabled {
			continue
		}
		models[entry.Name] = entry
	}

	return &Registry{
		adapters: adapters,
		models:   models,
		logger:   logger,
	}
}

// Resolve maps a model identifier to the adapter that serves it.
//
// Lookup order: an enabled registry entry keyed by exact name wins and its
// declared provider is used; otherwise prefix heuristics apply (gpt- →
// openai, claude- → anthropic, gemini- → gemini); anything else falls back
// to the OpenAI adapter. The fallback is deliberate, documented behavior —
// an unmatched name is not an error. A registry entry naming a provider
// with no registered adapter does fail, with ModelNotFoundError.
func (r *Registry) Resolve(model string) (ai.StreamProvider, error) {
	if entry, ok := r.models[model]; ok {
		adapter, ok := r.adapters[ProviderName(entry.Provider)]
		if !ok {
			return nil, llmerr.New(llmerr.KindModelNotFound, entry.Provider,
				fmt.Sprintf("model %q declares unknown provider %q", model, entry.Provider), nil)
		}
		return adapter, nil
	}

	return r.resolveByPrefix(model)
}

func (r *Registry) resolveByPrefix(model string) (ai.StreamProvider, error) {
	name := ProviderOpenAI
	switch {
	case strings.HasPrefix(model, "gpt-"):
		name = ProviderOpenAI
	case strings.HasPrefix(model, "claude-"):
		name = ProviderAnthropic
	case strings.HasPrefix(model, "gemini-"):
		name = ProviderGemini
	default:
		r.logger.Debug("no registry entry or prefix match, defaulting to openai", "model", model)
	}

	adapter, ok := r.adapters[name]
	if !ok {
		return nil, llmerr.New(llmerr.KindModelNotFound, string(name),
			fmt.Sprintf("no adapter registered for provider %q", name), nil)
	}
	return adapter, nil
}

// ContextTokens returns the configured context budget for a model, or 0 when
// the model has no explicit registry entry.
func (r *Registry) ContextTokens(model string) int {
	if entry, ok := r.models[model]; ok {
		return entry.ContextTokens
	}
	return 0
}
