package ai

/*
	##### PROVIDER INPUT #####
*/

// MessageRole represents the role of a message; compatible with string.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)

// Message represents a single message in a conversation. Messages are
// immutable once constructed; their creation order forms the conversation
// history and is replayed to the provider verbatim.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// GenerationConfig carries the sampling parameters applied to every request.
// Values are environment-sourced and fixed per adapter construction.
type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`  // Max tokens for the response
	Temperature float32 `json:"temperature,omitempty"` // Sampling temperature
}

// ChatRequest represents a request to stream a chat completion.
//
// Messages holds the turn-taking conversation only: the system prompt is
// never part of this list. Use [SplitSystemPrompt] to derive a ChatRequest's
// message list from raw history.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`
	Messages         []Message         `json:"messages"`
	SystemPrompt     string            `json:"system_prompt,omitempty"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
}

// SplitSystemPrompt extracts the system prompt from an ordered history.
// The first system-role message becomes the dedicated system prompt; every
// system-role entry is removed from the returned turn list, preserving the
// relative order of the remaining messages. No adapter ever sends a
// system-role entry inside the conversational message array.
func SplitSystemPrompt(history []Message) (systemPrompt string, turns []Message) {
	turns = make([]Message, 0, len(history))

	for _, message := range history {
		if message.Role == RoleSystem {
			if systemPrompt == "" {
				systemPrompt = message.Content
			}
			continue
		}
		turns = append(turns, message)
	}

	return systemPrompt, turns
}
