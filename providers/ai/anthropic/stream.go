package anthropic

import (
	"context"
	"fmt"
	"io"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/internal/utils"
	"github.com/minhuy206/chatsapp/providers/ai"
)

// StreamMessage implements [ai.StreamProvider] for Anthropic's Messages API.
// It sends a streaming request (stream=true) and returns a ChatStream that
// yields text deltas as SSE events arrive.
//
// Pre-stream failures are mapped through the error taxonomy and returned
// immediately. Mid-stream failures — including Anthropic "error" events —
// are yielded through the iterator as streaming-kind taxonomy errors.
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

	wireRequest := adapter.requestToMessages(request)
	wireRequest.Stream = true

	// Pass empty apiKey so DoPostStream does not inject a Bearer token;
	// Anthropic authenticates via x-api-key (set inside buildHeaders).
	streamURL := adapter.baseURL + messagesEndpoint
	httpResponse, err := utils.DoPostStream(ctx, adapter.client, streamURL, "", wireRequest, adapter.buildHeaders()...)
	if err != nil {
		adapter.logger.Warn("streaming request failed",
			"provider", providerName, "model", request.Model, "error", err.Error())
		return nil, adapter.mapper.Map(providerName, err)
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		// Token counts are spread across events (message_start carries
		// input tokens, message_delta carries output tokens); they are
		// accumulated and emitted as one usage event at message_stop.
		inputTokens := 0
		outputTokens := 0
		finishReason := ""

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, adapter.streamError(request.Model, "SSE read error", sseErr))
				return
			}

			event, parseErr := unmarshalStreamEvent(payload)
			if parseErr != nil {
				yield(ai.StreamEvent{}, adapter.streamError(request.Model, "failed to parse streaming event", parseErr))
				return
			}

			switch event.Type {
			case "message_start":
				if event.Message != nil && event.Message.Usage != nil {
					inputTokens = event.Message.Usage.InputTokens
				}

			case "content_block_delta":
				if event.Delta != nil && event.Delta.Type == "text_delta" && event.Delta.Text != "" {
					if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: event.Delta.Text}, nil) {
						return
					}
				}

			case "message_delta":
				if event.Delta != nil && event.Delta.StopReason != "" {
					finishReason = event.Delta.StopReason
				}
				if event.Usage != nil {
					outputTokens = event.Usage.OutputTokens
				}

			case "message_stop":
				if inputTokens > 0 || outputTokens > 0 {
					usage := &ai.Usage{
						PromptTokens:     inputTokens,
						CompletionTokens: outputTokens,
						TotalTokens:      inputTokens + outputTokens,
					}
					if !yield(ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usage}, nil) {
						return
					}
				}
				yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: finishReason}, nil)
				return

			case "error":
				message := "provider reported a stream error"
				if event.Error != nil {
					message = fmt.Sprintf("%s: %s", event.Error.Type, event.Error.Message)
				}
				yield(ai.StreamEvent{}, adapter.streamError(request.Model, message, nil))
				return

			case "ping", "content_block_start", "content_block_stop":
				// No payload of interest.
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// streamError builds a mid-stream taxonomy error, logged with provider and
// model context.
func (adapter *Adapter) streamError(model, message string, cause error) error {
	detail := message
	if cause != nil {
		detail = fmt.Sprintf("%s: %v", message, cause)
	}
	adapter.logger.Warn("mid-stream failure",
		"provider", providerName, "model", model, "error", detail)
	return adapter.mapper.Map(providerName,
		llmerr.New(llmerr.KindStreaming, providerName, detail, cause))
}
