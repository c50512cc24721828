package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/minhuy206/chatsapp/core/llmerr"
	"github.com/minhuy206/chatsapp/internal/utils"
	"github.com/minhuy206/chatsapp/providers/ai"
)

// StreamMessage implements [ai.StreamProvider] for the Gemini API. It POSTs
// to the streamGenerateContent endpoint with alt=sse and reads incremental
// chunks from the SSE response.
//
// The JSON decode of each data line is best-effort: chunks can arrive split
// mid-line, so a payload that fails to parse is skipped silently and the
// stream continues with the next line. Upgrading this to fail-fast would
// break correct streams that happen to be read in small buffers.
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

	wireRequest := adapter.requestToGenerateContent(request)

	// Gemini authenticates via x-goog-api-key; pass empty apiKey so
	// DoPostStream does not inject a Bearer token.
	streamURL := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", adapter.baseURL, request.Model)
	httpResponse, err := utils.DoPostStream(ctx, adapter.client, streamURL, "", wireRequest,
		utils.HeaderOption{Key: "x-goog-api-key", Value: adapter.apiKey})
	if err != nil {
		adapter.logger.Warn("streaming request failed",
			"provider", providerName, "model", request.Model, "error", err.Error())
		return nil, adapter.mapper.Map(providerName, err)
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

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

			// Best-effort parse: malformed payloads (typically partial
			// chunks) are skipped, not fatal.
			var chunk generateContentResponse
			if parseErr := json.Unmarshal([]byte(payload), &chunk); parseErr != nil {
				adapter.logger.Debug("skipping malformed streaming chunk",
					"provider", providerName,
					"model", request.Model,
					"payload", utils.TruncateStringDefault(payload),
				)
				continue
			}

			for _, event := range chunkToStreamEvents(&chunk) {
				if !yield(event, nil) {
					return
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// chunkToStreamEvents extracts the normalized events from one streaming
// chunk: the first candidate's first text part, usage metadata, and the
// finish reason when present.
func chunkToStreamEvents(chunk *generateContentResponse) []ai.StreamEvent {
	var events []ai.StreamEvent

	if len(chunk.Candidates) > 0 {
		cand := chunk.Candidates[0]

		if cand.Content != nil && len(cand.Content.Parts) > 0 && cand.Content.Parts[0].Text != "" {
			events = append(events, ai.StreamEvent{
				Type:    ai.StreamEventContent,
				Content: cand.Content.Parts[0].Text,
			})
		}

		if cand.FinishReason != "" {
			events = append(events, ai.StreamEvent{
				Type:         ai.StreamEventDone,
				FinishReason: cand.FinishReason,
			})
		}
	}

	if chunk.UsageMetadata != nil {
		events = append(events, ai.StreamEvent{
			Type: ai.StreamEventUsage,
			Usage: &ai.Usage{
				PromptTokens:     chunk.UsageMetadata.PromptTokenCount,
				CompletionTokens: chunk.UsageMetadata.CandidatesTokenCount,
				TotalTokens:      chunk.UsageMetadata.TotalTokenCount,
			},
		})
	}

	return events
}

// streamError builds a mid-stream taxonomy error, logged with provider and
// model context.
func (adapter *Adapter) streamError(model, message string, cause error) error {
	detail := fmt.Sprintf("%s: %v", message, cause)
	adapter.logger.Warn("mid-stream failure",
		"provider", providerName, "model", model, "error", detail)
	return adapter.mapper.Map(providerName,
		llmerr.New(llmerr.KindStreaming, providerName, detail, cause))
}
