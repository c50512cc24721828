package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/internal/utils"
	"github.com/minhuy206/chatsapp/providers/ai"
)

// StreamMessage implements [ai.StreamProvider] for the chat completions
// endpoint. It sends a streaming request (stream=true) and returns a
// ChatStream that yields content deltas as SSE events arrive.
//
// Pre-stream failures (missing key, non-2xx response, network error) are
// mapped through the error taxonomy and returned immediately. Mid-stream
// failures are yielded through the iterator as streaming-kind taxonomy
// errors, so the retry driver above this adapter only ever observes mapped
// kinds.
func (adapter *Adapter) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	adapter.logger.Debug("preparing streaming request",
		"provider", providerName,
		"model", request.Model,
		"messages", len(request.Messages),
	)

	if adapter.apiKey == "" {
		return nil, adapter.mapper.Map(providerName,
			llmerr.New(llmerr.KindAuthentication, providerName, "API key is not set", nil))
	}

	wireRequest := adapter.requestToChatCompletion(request)
	wireRequest.Stream = true
	wireRequest.StreamOptions = &streamOptions{IncludeUsage: true}

	streamURL := adapter.baseURL + chatCompletionsEndpoint
	httpResponse, err := utils.DoPostStream(ctx, adapter.client, streamURL, adapter.apiKey, wireRequest)
	if err != nil {
		adapter.logger.Warn("streaming request failed",
			"provider", providerName, "model", request.Model, "error", err.Error())
		return nil, adapter.mapper.Map(providerName, err)
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		// Ensure the response body is closed when the iterator is done
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			// Check for context cancellation
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				// Stream finished normally ([DONE] sentinel or EOF)
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, adapter.streamError(request.Model, "SSE read error", sseErr))
				return
			}

			chunk, parseErr := unmarshalStreamChunk(payload)
			if parseErr != nil {
				yield(ai.StreamEvent{}, adapter.streamError(request.Model, "failed to parse streaming chunk", parseErr))
				return
			}

			for _, event := range chunkToStreamEvents(chunk) {
				if !yield(event, nil) {
					return // Caller stopped iterating
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// chunkToStreamEvents converts a single streaming chunk into zero or more
// normalized events. Empty content deltas are filtered out; usage arrives in
// the final chunk with empty choices.
func chunkToStreamEvents(chunk *chatCompletionStreamChunk) []ai.StreamEvent {
	var events []ai.StreamEvent

	if chunk.Usage != nil {
		events = append(events, ai.StreamEvent{
			Type: ai.StreamEventUsage,
			Usage: &ai.Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			},
		})
	}

	if len(chunk.Choices) == 0 {
		return events
	}

	choice := chunk.Choices[0]
	if choice.Delta.Content != "" {
		events = append(events, ai.StreamEvent{
			Type:    ai.StreamEventContent,
			Content: choice.Delta.Content,
		})
	}

	if choice.FinishReason != "" {
		events = append(events, ai.StreamEvent{
			Type:         ai.StreamEventDone,
			FinishReason: choice.FinishReason,
		})
	}

	return events
}

// streamError builds a mid-stream taxonomy error, logged with provider and
// model context. Routing through the mapper keeps the logging side effect in
// one place and is a no-op on the already-mapped value.
func (adapter *Adapter) streamError(model, message string, cause error) error {
	adapter.logger.Warn("mid-stream failure",
		"provider", providerName, "model", model, "error", cause.Error())
	return adapter.mapper.Map(providerName,
		llmerr.New(llmerr.KindStreaming, providerName, fmt.Sprintf("%s: %v", message, cause), cause))
}
