package openai

import "encoding/json"

/*
	OPENAI CHAT COMPLETIONS API - WIRE TYPES
*/

// chatCompletionRequest is the request body for POST /chat/completions.
type chatCompletionRequest struct {
	Model         string         `json:"model"`
	Messages      []chatMessage  `json:"messages"`
	MaxTokens     int            `json:"max_tokens,omitempty"`
	Temperature   *float32       `json:"temperature,omitempty"`
	Stream        bool           `json:"stream,omitempty"`
	StreamOptions *streamOptions `json:"stream_options,omitempty"`
}

// chatMessage is a single role/content pair on the wire. The system prompt
// travels as the leading "system" entry; the turn-taking conversation is
// sent as-is after it.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamOptions requests usage reporting in the final streaming chunk.
type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

/*
	OPENAI SSE STREAMING - WIRE TYPES
*/

// chatCompletionStreamChunk is one SSE event payload. The final chunk
// (when stream_options.include_usage is set) carries Usage with empty
// choices.
type chatCompletionStreamChunk struct {
	ID      string         `json:"id"`
	Choices []streamChoice `json:"choices"`
	Usage   *usagePayload  `json:"usage,omitempty"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type streamDelta struct {
	Content string `json:"content,omitempty"`
}

type usagePayload struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// unmarshalStreamChunk parses a JSON SSE payload into a streaming chunk.
func unmarshalStreamChunk(payload string) (*chatCompletionStreamChunk, error) {
	var chunk chatCompletionStreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}
