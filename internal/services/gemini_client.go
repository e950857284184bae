package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"wanna/internal/logger"
	"wanna/pkg/wannatypes"
)

// GeminiClient implements the LLMClient interface for the Google Gemini API.
type GeminiClient struct {
	apiKey string
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey}
}

// GetProviderName returns the provider name for this client.
func (c *GeminiClient) GetProviderName() string {
	return "gemini"
}

// IsConfigured returns true if the client has a valid API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return fmt.Errorf("google API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     c.apiKey,
		HTTPClient: NewDebugHTTPClient(),
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	logger.Debug("Gemini client initialized", "provider", "gemini")
	return nil
}

// SendChatCompletion sends a chat completion request to Google Gemini.
func (c *GeminiClient) SendChatCompletion(ctx context.Context, messages []wannatypes.Message, modelConfig *wannatypes.ModelConfig) (string, error) {
	logger.Debug("Gemini SendChatCompletion starting", "model", modelConfig.BaseModel, "message_count", len(messages))

	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return "", fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	temperature := float32(modelConfig.Temperature)
	config := &genai.GenerateContentConfig{Temperature: &temperature}
	if modelConfig.MaxTokens > 0 {
		config.MaxOutputTokens = int32(modelConfig.MaxTokens)
	}

	result, err := c.client.Models.GenerateContent(ctx, modelConfig.BaseModel, convertMessagesToGemini(messages), config)
	if err != nil {
		logger.Error("Gemini request failed", "error", err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	content := extractGeminiText(result)
	logger.Debug("Gemini response received", "content_length", len(content))
	return content, nil
}

// convertMessagesToGemini maps transcript roles onto Gemini's user/model roles.
// System messages keep their position and are sent as labelled user turns.
func convertMessagesToGemini(messages []wannatypes.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		var role, text string
		switch msg.Role {
		case wannatypes.RoleUser:
			role, text = "user", msg.Content
		case wannatypes.RoleAssistant:
			role, text = "model", msg.Content
		case wannatypes.RoleSystem:
			role, text = "user", "System: "+msg.Content
		default:
			continue
		}
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
			Role:  role,
		})
	}

	if len(contents) == 0 {
		contents = append(contents, &genai.Content{Parts: []*genai.Part{{Text: ""}}, Role: "user"})
	}

	return contents
}

// extractGeminiText concatenates the non-thought text parts of every candidate.
func extractGeminiText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
	}
	return builder.String()
}
