package anthropic

import "encoding/json"

/*
	ANTHROPIC MESSAGES API - REQUEST TYPES
*/

// messagesRequest is the request body for POST /messages. The system prompt
// travels in the dedicated top-level system field, never inside messages.
type messagesRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	System      string        `json:"system,omitempty"`
	MaxTokens   int           `json:"max_tokens"` // Required by Anthropic on every request
	Temperature *float32      `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// wireMessage is a single turn on the wire. Only "user" and "assistant"
// roles are valid here.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

/*
	ANTHROPIC SSE STREAMING - WIRE TYPES

	Anthropic streaming uses SSE with "event:" lines to identify event types,
	followed by "data:" lines containing JSON payloads. The SSEScanner only
	processes "data:" lines, so the "type" field inside the JSON payload
	discriminates events.

	Event lifecycle:
	  message_start → content_block_start → content_block_delta(s) →
	  content_block_stop → message_delta → message_stop
*/

// streamEvent is the top-level envelope for all Anthropic SSE events.
type streamEvent struct {
	Type    string        `json:"type"`
	Index   int           `json:"index,omitempty"`   // For content_block_start/delta/stop
	Delta   *streamDelta  `json:"delta,omitempty"`   // For content_block_delta and message_delta
	Message *messageStart `json:"message,omitempty"` // For message_start
	Usage   *wireUsage    `json:"usage,omitempty"`   // For message_delta
	Error   *wireError    `json:"error,omitempty"`   // For error events
}

// streamDelta carries incremental content within a content_block_delta or
// message_delta event. text_delta populates Text; message_delta populates
// StopReason.
type streamDelta struct {
	Type       string `json:"type,omitempty"` // "text_delta" on content deltas
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

// messageStart carries the initial message metadata, including input token
// usage.
type messageStart struct {
	ID    string     `json:"id"`
	Usage *wireUsage `json:"usage,omitempty"`
}

// wireUsage reports token counts. Input tokens arrive on message_start,
// output tokens on message_delta.
type wireUsage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
}

// wireError is the payload of an "error" SSE event (overloaded_error,
// api_error, ...).
type wireError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// unmarshalStreamEvent parses a JSON SSE payload into a streamEvent.
func unmarshalStreamEvent(payload string) (*streamEvent, error) {
	var event streamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	return &event, nil
}
