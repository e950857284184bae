package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"wanna/internal/logger"
	"wanna/pkg/wannatypes"
)

// defaultAnthropicMaxTokens is used when the model configuration leaves MaxTokens unset;
// the Messages API requires an explicit value.
const defaultAnthropicMaxTokens = 2048

// AnthropicClient implements the LLMClient interface for Anthropic's Messages API.
type AnthropicClient struct {
	apiKey string
	client *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client with lazy initialization.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{apiKey: apiKey}
}

// GetProviderName returns the provider name for this client.
func (c *AnthropicClient) GetProviderName() string {
	return "anthropic"
}

// IsConfigured returns true if the client has a valid API key.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *AnthropicClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return fmt.Errorf("anthropic API key not configured")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(c.apiKey),
		option.WithHTTPClient(NewDebugHTTPClient()),
	)
	c.client = &client

	logger.Debug("Anthropic client initialized", "provider", "anthropic")
	return nil
}

// SendChatCompletion sends a chat completion request to Anthropic.
// System messages anywhere in the transcript are folded, in order, into the system prompt.
func (c *AnthropicClient) SendChatCompletion(ctx context.Context, messages []wannatypes.Message, modelConfig *wannatypes.ModelConfig) (string, error) {
	logger.Debug("Anthropic SendChatCompletion starting", "model", modelConfig.BaseModel, "message_count", len(messages))

	if err := c.initializeClientIfNeeded(); err != nil {
		return "", fmt.Errorf("failed to initialize Anthropic client: %w", err)
	}

	converted, systemPrompt := convertMessagesToAnthropic(messages)

	maxTokens := int64(defaultAnthropicMaxTokens)
	if modelConfig.MaxTokens > 0 {
		maxTokens = int64(modelConfig.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(modelConfig.BaseModel),
		MaxTokens:   maxTokens,
		Messages:    converted,
		Temperature: anthropic.Float(modelConfig.Temperature),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("Anthropic request failed", "error", err)
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		content.WriteString(block.Text)
	}

	logger.Debug("Anthropic response received", "content_length", content.Len())
	return content.String(), nil
}

// convertMessagesToAnthropic folds the system messages that precede the first user turn
// into the system prompt. Later system messages keep their position as labelled user turns
// so the request never ends on an assistant turn.
func convertMessagesToAnthropic(messages []wannatypes.Message) ([]anthropic.MessageParam, string) {
	converted := make([]anthropic.MessageParam, 0, len(messages))
	var systemInstructions []string
	seenUser := false

	for _, msg := range messages {
		switch msg.Role {
		case wannatypes.RoleUser:
			seenUser = true
			converted = append(converted, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case wannatypes.RoleAssistant:
			converted = append(converted, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case wannatypes.RoleSystem:
			if !seenUser {
				systemInstructions = append(systemInstructions, msg.Content)
				continue
			}
			converted = append(converted, anthropic.NewUserMessage(anthropic.NewTextBlock("System: "+msg.Content)))
		default:
			continue
		}
	}

	return converted, strings.Join(systemInstructions, "\n\n")
}
