package gemini

import "github.com/minhuy206/chatsapp/providers/ai"

// requestToGenerateContent converts an ai.ChatRequest into the Gemini wire
// request. The system prompt becomes a systemInstruction with the same
// part shape; the turn list is remapped message by message:
// assistant → "model", user → "user", each as {role, parts:[{text}]}.
func (adapter *Adapter) requestToGenerateContent(request ai.ChatRequest) generateContentRequest {
	systemPrompt, turns := ai.SplitSystemPrompt(request.Messages)
	if request.SystemPrompt != "" {
		systemPrompt = request.SystemPrompt
	}

	wireRequest := generateContentRequest{}

	if systemPrompt != "" {
		wireRequest.SystemInstruction = &content{
			Parts: []part{{Text: systemPrompt}},
		}
	}

	contents := make([]content, 0, len(turns))
	for _, turn := range turns {
		role := "user"
		if turn.Role == ai.RoleAssistant {
			role = "model"
		}
		contents = append(contents, content{
			Role:  role,
			Parts: []part{{Text: turn.Content}},
		})
	}
	wireRequest.Contents = contents

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

	if maxTokens > 0 || temperature > 0 {
		wireRequest.GenerationConfig = &generationConfig{}
		if maxTokens > 0 {
			wireRequest.GenerationConfig.MaxOutputTokens = maxTokens
		}
		if temperature > 0 {
			wireRequest.GenerationConfig.Temperature = &temperature
		}
	}

	return wireRequest
}
