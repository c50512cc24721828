package openai

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/minhuy206/chatsapp/providers/ai"
)

// jsonDecode decodes a request body into v. Shared by the wire-shape tests.
func jsonDecode(request *http.Request, v any) error {
	return json.NewDecoder(request.Body).Decode(v)
}

// TestRequestToChatCompletion_SystemExtraction verifies that system messages
// never travel inside the turn list: the first one becomes the leading
// "system" entry and the rest are dropped.
func TestRequestToChatCompletion_SystemExtraction(t *testing.T) {
	adapter := New(Config{APIKey: "k"})

	wireRequest := adapter.requestToChatCompletion(ai.ChatRequest{
		Model: "gpt-4o",
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: "hi"},
			{Role: ai.RoleSystem, Content: "be terse"},
			{Role: ai.RoleAssistant, Content: "hello"},
			{Role: ai.RoleSystem, Content: "ignored"},
		},
	})

	if len(wireRequest.Messages) != 3 {
		t.Fatalf("got %d wire messages, want 3", len(wireRequest.Messages))
	}
	if wireRequest.Messages[0].Role != "system" || wireRequest.Messages[0].Content != "be terse" {
		t.Errorf("leading message = %+v, want the extracted system prompt", wireRequest.Messages[0])
	}
	for _, message := range wireRequest.Messages[1:] {
		if message.Role == "system" {
			t.Errorf("system role leaked into the turn list: %+v", message)
		}
	}
	if wireRequest.Messages[1].Content != "hi" || wireRequest.Messages[2].Content != "hello" {
		t.Error("turn order not preserved")
	}
}

// TestRequestToChatCompletion_ExplicitSystemPromptWins verifies that a
// request-level system prompt overrides one embedded in the history.
func TestRequestToChatCompletion_ExplicitSystemPromptWins(t *testing.T) {
	adapter := New(Config{APIKey: "k"})

	wireRequest := adapter.requestToChatCompletion(ai.ChatRequest{
		Model:        "gpt-4o",
		SystemPrompt: "explicit",
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: "embedded"},
			{Role: ai.RoleUser, Content: "hi"},
		},
	})

	if wireRequest.Messages[0].Content != "explicit" {
		t.Errorf("system prompt = %q, want the explicit one", wireRequest.Messages[0].Content)
	}
}

// TestRequestToChatCompletion_GenerationConfig verifies the precedence of
// per-request generation settings over adapter defaults.
func TestRequestToChatCompletion_GenerationConfig(t *testing.T) {
	adapter := New(Config{APIKey: "k", MaxTokens: 100, Temperature: 0.3})

	defaulted := adapter.requestToChatCompletion(ai.ChatRequest{Model: "gpt-4o"})
	if defaulted.MaxTokens != 100 {
		t.Errorf("max_tokens = %d, want the adapter default 100", defaulted.MaxTokens)
	}
	if defaulted.Temperature == nil || *defaulted.Temperature != 0.3 {
		t.Errorf("temperature = %v, want the adapter default 0.3", defaulted.Temperature)
	}

	overridden := adapter.requestToChatCompletion(ai.ChatRequest{
		Model:            "gpt-4o",
		GenerationConfig: &ai.GenerationConfig{MaxTokens: 42, Temperature: 0.9},
	})
	if overridden.MaxTokens != 42 {
		t.Errorf("max_tokens = %d, want the override 42", overridden.MaxTokens)
	}
	if overridden.Temperature == nil || *overridden.Temperature != 0.9 {
		t.Errorf("temperature = %v, want the override 0.9", overridden.Temperature)
	}
}
