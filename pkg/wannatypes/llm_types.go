package wannatypes

import "context"

// ModelConfig identifies the model a request is sent to and its sampling parameters.
type ModelConfig struct {
	Provider    string  // "openai", "openrouter", "anthropic", "gemini"
	BaseModel   string  // provider specific model identifier
	Temperature float64 // fixed for the lifetime of a conversation
	MaxTokens   int     // 0 lets the provider decide, except for anthropic which requires a value
}

// LLMClient defines the interface for language model provider implementations.
// A client performs exactly one synchronous completion per call and never retries on its own.
type LLMClient interface {
	// SendChatCompletion sends the ordered transcript and returns the assistant reply text.
	// A response without a usable completion yields an empty string and a nil error.
	SendChatCompletion(ctx context.Context, messages []Message, model *ModelConfig) (string, error)

	// GetProviderName returns the name of the provider (e.g., "openai", "anthropic").
	GetProviderName() string

	// IsConfigured returns true if the client has valid configuration and can make requests.
	IsConfigured() bool
}
