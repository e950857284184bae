package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"wanna/internal/logger"
	"wanna/pkg/wannatypes"
)

// ErrMissingCredential is returned when no API key is configured for the selected provider.
var ErrMissingCredential = errors.New("API key not configured")

// providerDefaults holds the default model and API key variable for each supported provider.
var providerDefaults = map[string]struct {
	model  string
	keyEnv string
}{
	"openai":     {model: "gpt-3.5-turbo", keyEnv: "OPENAI_API_KEY"},
	"openrouter": {model: "openai/gpt-3.5-turbo", keyEnv: "OPENROUTER_API_KEY"},
	"anthropic":  {model: "claude-3-5-sonnet-20241022", keyEnv: "ANTHROPIC_API_KEY"},
	"gemini":     {model: "gemini-2.0-flash", keyEnv: "GEMINI_API_KEY"},
}

// Config is the resolved configuration for one process run.
type Config struct {
	ConfigDir    string  // per-user directory holding the registry, saved scripts and .env
	Provider     string  // language model provider
	Model        string  // model identifier
	APIKey       string  // credential for the provider
	BaseURL      string  // optional endpoint override for OpenAI-compatible providers
	Temperature  float64 // sampling temperature, fixed per conversation
	ExcerptLimit int     // runes kept from each end of stdout/stderr fed back to the model
	MaxRethinks  int     // refine cycles allowed per session, 0 for unlimited
	Shell        string  // interpreter used to run scripts
}

// ModelConfig returns the model parameters used for every request.
func (c *Config) ModelConfig() *wannatypes.ModelConfig {
	return &wannatypes.ModelConfig{
		Provider:    c.Provider,
		BaseModel:   c.Model,
		Temperature: c.Temperature,
	}
}

// ValidateCredentials checks that an API key is present for the selected provider.
func (c *Config) ValidateCredentials() error {
	if strings.TrimSpace(c.APIKey) != "" {
		return nil
	}
	keyEnv := "WANNA_API_KEY"
	if defaults, ok := providerDefaults[c.Provider]; ok {
		keyEnv = defaults.keyEnv
	}
	return fmt.Errorf("%w for provider %s (set %s or WANNA_API_KEY)", ErrMissingCredential, c.Provider, keyEnv)
}

// ConfigurationService resolves wanna's configuration.
// Priority (highest to lowest): flags > environment variables > local .env > config .env > defaults.
type ConfigurationService struct {
	v *viper.Viper
}

// NewConfigurationService creates a configuration service over the given viper instance.
// Flags should already be bound to v; a nil v uses a fresh instance.
func NewConfigurationService(v *viper.Viper) *ConfigurationService {
	if v == nil {
		v = viper.New()
	}
	return &ConfigurationService{v: v}
}

// Name returns the service name "configuration" for logging.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// Load resolves the configuration directory (creating it if absent), layers the .env
// files into the process environment and returns the resulting Config.
func (c *ConfigurationService) Load() (*Config, error) {
	logger.ServiceOperation(c.Name(), "load", "starting")

	c.v.SetEnvPrefix("WANNA")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	c.v.SetDefault("provider", "openai")
	c.v.SetDefault("temperature", 0.1)
	c.v.SetDefault("excerpt-limit", 1000)
	c.v.SetDefault("max-rethinks", 5)
	c.v.SetDefault("shell", "bash")

	configDir, err := c.resolveConfigDir()
	if err != nil {
		return nil, err
	}

	if err := c.loadDotEnv(configDir); err != nil {
		return nil, err
	}

	provider := strings.ToLower(strings.TrimSpace(c.v.GetString("provider")))
	defaults, ok := providerDefaults[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider '%s'. Supported providers: openai, openrouter, anthropic, gemini", provider)
	}

	cfg := &Config{
		ConfigDir:    configDir,
		Provider:     provider,
		Model:        c.v.GetString("model"),
		APIKey:       c.v.GetString("api-key"),
		BaseURL:      c.v.GetString("base-url"),
		Temperature:  c.v.GetFloat64("temperature"),
		ExcerptLimit: c.v.GetInt("excerpt-limit"),
		MaxRethinks:  c.v.GetInt("max-rethinks"),
		Shell:        c.v.GetString("shell"),
	}

	if cfg.Model == "" && provider == "openai" {
		cfg.Model = os.Getenv("OPENAI_MODEL")
	}
	if cfg.Model == "" {
		cfg.Model = defaults.model
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(defaults.keyEnv)
	}
	if cfg.ExcerptLimit <= 0 {
		cfg.ExcerptLimit = 1000
	}
	if cfg.MaxRethinks < 0 {
		cfg.MaxRethinks = 0
	}

	logger.Debug("Configuration loaded", "config_dir", cfg.ConfigDir, "provider", cfg.Provider, "model", cfg.Model)
	return cfg, nil
}

// resolveConfigDir returns the configured directory or ~/.wanna, creating it when missing.
func (c *ConfigurationService) resolveConfigDir() (string, error) {
	configDir := c.v.GetString("config-dir")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".wanna")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return configDir, nil
}

// loadDotEnv loads ./.env and then <configDir>/.env. godotenv never overrides variables
// that are already set, so the local file wins over the config file and the real
// environment wins over both.
func (c *ConfigurationService) loadDotEnv(configDir string) error {
	candidates := []string{".env", filepath.Join(configDir, ".env")}
	if wd, err := os.Getwd(); err == nil {
		candidates[0] = filepath.Join(wd, ".env")
	}

	for _, envPath := range candidates {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("failed to load %s: %w", envPath, err)
		}
		logger.Debug("Loaded .env file", "path", envPath)
	}
	return nil
}
