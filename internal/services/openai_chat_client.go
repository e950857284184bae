// Package services provides the language model gateway clients and the configuration
// service used by wanna.
package services

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"wanna/internal/logger"
	"wanna/pkg/wannatypes"
)

// OpenAIClient implements the LLMClient interface for OpenAI's chat completions API.
// Any OpenAI-compatible endpoint (e.g. OpenRouter) is reached by setting a base URL.
type OpenAIClient struct {
	apiKey   string
	baseURL  string
	provider string
	client   *openai.Client
}

// NewOpenAIClient creates a new OpenAI client with lazy initialization.
// The actual OpenAI client is created only when the first request is made.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:   apiKey,
		provider: "openai",
	}
}

// NewOpenAICompatibleClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAICompatibleClient(apiKey, provider, baseURL string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:   apiKey,
		baseURL:  baseURL,
		provider: provider,
	}
}

// GetProviderName returns the provider name for this client.
func (c *OpenAIClient) GetProviderName() string {
	return c.provider
}

// IsConfigured returns true if the client has a valid API key.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *OpenAIClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return fmt.Errorf("%s API key not configured", c.provider)
	}

	options := []option.RequestOption{
		option.WithAPIKey(c.apiKey),
		option.WithHTTPClient(NewDebugHTTPClient()),
	}
	if c.baseURL != "" {
		options = append(options, option.WithBaseURL(c.baseURL))
	}

	client := openai.NewClient(options...)
	c.client = &client

	logger.Debug("OpenAI client initialized", "provider", c.provider, "base_url", c.baseURL)
	return nil
}

// SendChatCompletion sends a chat completion request and returns the first choice's content.
// A response with no choices yields an empty reply rather than an error.
func (c *OpenAIClient) SendChatCompletion(ctx context.Context, messages []wannatypes.Message, modelConfig *wannatypes.ModelConfig) (string, error) {
	logger.Debug("OpenAI SendChatCompletion starting", "provider", c.provider, "model", modelConfig.BaseModel, "message_count", len(messages))

	if err := c.initializeClientIfNeeded(); err != nil {
		return "", fmt.Errorf("failed to initialize %s client: %w", c.provider, err)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelConfig.BaseModel),
		Messages:    convertMessagesToOpenAI(messages),
		Temperature: openai.Float(modelConfig.Temperature),
	}
	if modelConfig.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(modelConfig.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI request failed", "provider", c.provider, "error", err)
		return "", fmt.Errorf("%s request failed: %w", c.provider, err)
	}

	if len(completion.Choices) == 0 {
		logger.Debug("OpenAI response has no choices", "provider", c.provider)
		return "", nil
	}

	content := completion.Choices[0].Message.Content
	logger.Debug("OpenAI response received", "provider", c.provider, "content_length", len(content))
	return content, nil
}

func convertMessagesToOpenAI(messages []wannatypes.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case wannatypes.RoleUser:
			converted = append(converted, openai.UserMessage(msg.Content))
		case wannatypes.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		case wannatypes.RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		default:
			continue
		}
	}

	return converted
}
