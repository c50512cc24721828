package gemini

/*
	GEMINI GENERATECONTENT API - WIRE TYPES
*/

// generateContentRequest is the request body for
// POST /models/{model}:streamGenerateContent?alt=sse.
type generateContentRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

// content is one conversation entry. Gemini roles are "user" and "model";
// the assistant role is remapped during conversion.
type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float32 `json:"temperature,omitempty"`
}

/*
	GEMINI SSE STREAMING - WIRE TYPES

	Each SSE data line carries a full generateContentResponse; the streamed
	text fragment for a chunk lives at candidates[0].content.parts[0].text.
*/

type generateContentResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

type candidate struct {
	Content      *content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}
