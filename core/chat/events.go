package chat

// EventType discriminates the events emitted to the boundary during one
// chat turn. The sequence is the same regardless of transport (SSE,
// WebSocket, or in-process):
//
//	metadata → token* → token{done:true, latency_ms} → done
//
// or, on failure, error{message} in place of the completion token.
type EventType string

const (
	EventMetadata EventType = "metadata"
	EventToken    EventType = "token"
	EventDone     EventType = "done"
	EventError    EventType = "error"
)

// Event is one discriminated boundary event. Fields are populated according
// to Type; unused fields are omitted from the JSON encoding.
type Event struct {
	Type EventType `json:"type"`

	// Metadata fields
	ConversationID string `json:"conversation_id,omitempty"`
	Model          string `json:"model,omitempty"`

	// Token fields. Done is true only on the final completion token, which
	// carries an empty Text and the turn latency.
	Text      string `json:"text"`
	Done      bool   `json:"done,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`

	// Error field: the safe, user-facing message. Internal detail never
	// crosses the boundary here.
	Message string `json:"message,omitempty"`
}

// Sink receives boundary events in emission order. Implementations must not
// reorder or buffer across tokens; delivery is synchronous on the calling
// goroutine.
type Sink func(Event)

func metadataEvent(conversationID, model string) Event {
	return Event{Type: EventMetadata, ConversationID: conversationID, Model: model}
}

func tokenEvent(text string) Event {
	return Event{Type: EventToken, Text: text}
}

func completionEvent(latencyMs int64) Event {
	return Event{Type: EventToken, Done: true, LatencyMs: latencyMs}
}

func doneEvent() Event {
	return Event{Type: EventDone}
}

func errorEvent(message string) Event {
	return Event{Type: EventError, Message: message}
}
