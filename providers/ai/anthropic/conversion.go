package anthropic

import "github.com/minhuy206/chatsapp/providers/ai"

// requestToMessages converts an ai.ChatRequest into the Messages API wire
// request. The system prompt is extracted from the history and placed in the
// dedicated top-level system field; the remaining turns are sent verbatim.
func (adapter *Adapter) requestToMessages(request ai.ChatRequest) messagesRequest {
	systemPrompt, turns := ai.SplitSystemPrompt(request.Messages)
	if request.SystemPrompt != "" {
		systemPrompt = request.SystemPrompt
	}

	messages := make([]wireMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, wireMessage{Role: string(turn.Role), Content: turn.Content})
	}

	maxTokens := adapter.maxTokens
	temperature := adapter.temperature
	if request.GenerationConfig != nil {
		if request.GenerationConfig.MaxTokens > 0 {
			maxTokens = request.GenerationConfig.MaxTokens
		}
		if request.GenerationConfig.Temperature > 0 {
			temperature = request.GenerationConfig.Temperature
		}
	}
	if maxTokens <= 0 {
		maxTokens = fallbackMaxTokens
	}

	wireRequest := messagesRequest{
		Model:     request.Model,
		Messages:  messages,
		System:    systemPrompt,
		MaxTokens: maxTokens,
	}
	if temperature > 0 {
		wireRequest.Temperature = &temperature
	}

	return wireRequest
}
