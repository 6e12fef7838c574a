package types

// AI routing modes supported by the backend.
const (
	ModeN8N = "n8n"
	ModeRAG = "rag"
)

// Settings is the configuration object returned by GET /api/settings.
// API keys themselves are never returned, only presence flags.
type Settings struct {
	AIMode          string   `json:"ai_mode"`
	ChatModel       string   `json:"chat_model"`
	AvailableModels []string `json:"available_models"`
	OpenAIKeySet    bool     `json:"openai_api_key_set"`
	AnthropicKeySet bool     `json:"anthropic_api_key_set"`
}

// SettingsUpdate is the partial update body of PUT /api/settings. Nil
// fields are left unchanged server-side.
type SettingsUpdate struct {
	AIMode          *string `json:"ai_mode,omitempty" validate:"omitempty,oneof=n8n rag"`
	ChatModel       *string `json:"chat_model,omitempty"`
	OpenAIAPIKey    *string `json:"openai_api_key,omitempty"`
	AnthropicAPIKey *string `json:"anthropic_api_key,omitempty"`
}

// SettingsUpdateData is the response body of a successful settings write.
type SettingsUpdateData struct {
	Message string `json:"message"`
}

// HealthData is the response body of GET /health.
type HealthData struct {
	Status string `json:"status"`
}

// ErrorBody is the backend's error payload shape.
type ErrorBody struct {
	Detail string `json:"detail"`
}
