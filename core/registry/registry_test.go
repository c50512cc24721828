package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/providers/ai"
)

// fakeProvider is a named stub adapter for resolution tests.
type fakeProvider struct {
	name string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) StreamMessage(context.Context, ai.ChatRequest) (*ai.ChatStream, error) {
	return nil, nil
}

func allAdapters() map[ProviderName]ai.StreamProvider {
	return map[ProviderName]ai.StreamProvider{
		ProviderOpenAI:    &fakeProvider{name: "openai"},
		ProviderAnthropic: &fakeProvider{name: "anthropic"},
		ProviderGemini:    &fakeProvider{name: "gemini"},
	}
}

// TestResolve verifies the lookup order: registry entry, name prefix, then
// the OpenAI default for anything unmatched.
func TestResolve(t *testing.T) {
	entries := []ModelEntry{
		{Name: "my-tuned-model", Provider: "anthropic", Enabled: true},
		{Name: "gpt-legacy", Provider: "gemini", Enabled: true}, // registry beats prefix
		{Name: "disabled-model", Provider: "anthropic", Enabled: false},
	}
	registry := New(allAdapters(), entries, nil)

	tests := []struct {
		model string
		want  string
	}{
		{"my-tuned-model", "anthropic"},
		{"gpt-legacy", "gemini"},
		{"gpt-4o", "openai"},
		{"claude-sonnet-4-20250514", "anthropic"},
		{"gemini-2.0-flash", "gemini"},
		{"mystery-model", "openai"},
		{"disabled-model", "openai"}, // disabled entry ignored, falls through to default
	}

	for _, test := range tests {
		t.Run(test.model, func(t *testing.T) {
			adapter, err := registry.Resolve(test.model)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if adapter.Name() != test.want {
				t.Errorf("Resolve(%q) = %s, want %s", test.model, adapter.Name(), test.want)
			}
		})
	}
}

// TestResolve_MissingAdapter verifies the two failure paths: a registry
// entry declaring an unregistered provider, and a prefix match with no
// adapter behind it. Both surface as model-not-found taxonomy errors.
func TestResolve_MissingAdapter(t *testing.T) {
	openaiOnly := map[ProviderName]ai.StreamProvider{
		ProviderOpenAI: &fakeProvider{name: "openai"},
	}
	entries := []ModelEntry{
		{Name: "declared-elsewhere", Provider: "mistral", Enabled: true},
	}
	registry := New(openaiOnly, entries, nil)

	for _, model := range []string{"declared-elsewhere", "claude-sonnet-4-20250514"} {
		_, err := registry.Resolve(model)
		if err == nil {
			t.Fatalf("Resolve(%q) succeeded, want an error", model)
		}
		var taxonomyErr *llmerr.Error
		if !errors.As(err, &taxonomyErr) || taxonomyErr.Kind != llmerr.KindModelNotFound {
			t.Errorf("Resolve(%q) error = %v, want model-not-found", model, err)
		}
	}
}

// TestContextTokens verifies the budget lookup and the zero default.
func TestContextTokens(t *testing.T) {
	entries := []ModelEntry{
		{Name: "gpt-4o", Provider: "openai", Enabled: true, ContextTokens: 128000},
	}
	registry := New(allAdapters(), entries, nil)

	if got := registry.ContextTokens("gpt-4o"); got != 128000 {
		t.Errorf("ContextTokens(gpt-4o) = %d, want 128000", got)
	}
	if got := registry.ContextTokens("unknown"); got != 0 {
		t.Errorf("ContextTokens(unknown) = %d, want 0", got)
	}
}

// TestLoadEntries verifies TOML loading, the missing-file pass, and decode
// failures.
func TestLoadEntries(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "models.toml")
	content := `
[[models]]
name = "gpt-4o"
provider = "openai"
enabled = true
context_tokens = 128000

[[models]]
name = "claude-3-5-haiku-20241022"
provider = "anthropic"
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("LoadEntries returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "gpt-4o" || entries[0].ContextTokens != 128000 || !entries[0].Enabled {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Enabled {
		t.Error("second entry should be disabled")
	}

	// Missing file is not an error.
	entries, err = LoadEntries(filepath.Join(dir, "absent.toml"))
	if err != nil || entries != nil {
		t.Errorf("LoadEntries(missing) = (%v, %v), want (nil, nil)", entries, err)
	}

	// Empty path disables the registry file.
	if entries, err := LoadEntries(""); err != nil || entries != nil {
		t.Errorf("LoadEntries(empty) = (%v, %v), want (nil, nil)", entries, err)
	}

	// Malformed TOML is an error.
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[[models"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEntries(bad); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}
