package ai

import "context"

// StreamProvider is the contract every adapter implements: one provider wire
// protocol normalized into the shared [ChatStream] token sequence.
//
// StreamMessage returns pre-stream failures (auth, bad request, network) as a
// taxonomy error. Mid-stream failures are yielded through the iterator, also
// as taxonomy errors: adapters map every raw failure before it leaves adapter
// code, so the retry driver only ever observes mapped kinds.
type StreamProvider interface {
	// Name returns the provider tag used in error mapping and logging
	// ("openai", "anthropic", "gemini").
	Name() string

	// StreamMessage sends a chat request and returns a ChatStream that
	// yields incremental deltas as they arrive from the API.
	StreamMessage(ctx context.Context, request ChatRequest) (*ChatStream, error)
}
