package openai

import "github.com/minhuy206/chatsapp/providers/ai"

// requestToChatCompletion converts an ai.ChatRequest into the wire request.
//
// The system prompt is extracted from the history and re-attached through
// OpenAI's dedicated channel: a single leading "system" message. The
// turn-taking list that follows is sent as-is, with any stray system-role
// entries stripped by SplitSystemPrompt.
func (adapter *Adapter) requestToChatCompletion(request ai.ChatRequest) chatCompletionRequest {
	systemPrompt, turns := ai.SplitSystemPrompt(request.Messages)
	if request.SystemPrompt != "" {
		systemPrompt = request.SystemPrompt
	}

	messages := make([]chatMessage, 0, len(turns)+1)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(ai.RoleSystem), Content: systemPrompt})
	}
	for _, turn := range turns {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	wireRequest := chatCompletionRequest{
		Model:    request.Model,
		Messages: messages,
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

	if maxTokens > 0 {
		wireRequest.MaxTokens = maxTokens
	}
	if temperature > 0 {
		wireRequest.Temperature = &temperature
	}

	return wireRequest
}
