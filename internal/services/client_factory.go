package services

import (
	"fmt"

	"wanna/internal/logger"
	"wanna/pkg/wannatypes"
)

// NewClient creates the LLM client for the configured provider.
func NewClient(cfg *Config) (wannatypes.LLMClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	var client wannatypes.LLMClient
	switch cfg.Provider {
	case "openai":
		if cfg.BaseURL != "" {
			client = NewOpenAICompatibleClient(cfg.APIKey, "openai", cfg.BaseURL)
		} else {
			client = NewOpenAIClient(cfg.APIKey)
		}
	case "openrouter":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		client = NewOpenAICompatibleClient(cfg.APIKey, "openrouter", baseURL)
	case "anthropic":
		client = NewAnthropicClient(cfg.APIKey)
	case "gemini":
		client = NewGeminiClient(cfg.APIKey)
	default:
		return nil, fmt.Errorf("unsupported provider '%s'. Supported providers: openai, openrouter, anthropic, gemini", cfg.Provider)
	}

	logger.Debug("Created provider client", "provider", cfg.Provider, "model", cfg.Model)
	return client, nil
}
