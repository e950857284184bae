package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearProviderEnv blanks every variable the configuration service reads so the
// developer's own environment cannot leak into the tests.
func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WANNA_PROVIDER", "WANNA_MODEL", "WANNA_API_KEY", "WANNA_BASE_URL", "WANNA_TEMPERATURE",
		"WANNA_EXCERPT_LIMIT", "WANNA_MAX_RETHINKS", "WANNA_SHELL", "WANNA_CONFIG_DIR",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func newTestConfigService(t *testing.T, configDir string) *ConfigurationService {
	t.Helper()
	v := viper.New()
	v.Set("config-dir", configDir)
	return NewConfigurationService(v)
}

func TestConfigurationService_Name(t *testing.T) {
	assert.Equal(t, "configuration", NewConfigurationService(nil).Name())
}

func TestConfigurationService_Defaults(t *testing.T) {
	clearProviderEnv(t)
	configDir := filepath.Join(t.TempDir(), "nested", ".wanna")

	cfg, err := newTestConfigService(t, configDir).Load()
	require.NoError(t, err)

	assert.DirExists(t, configDir)
	assert.Equal(t, configDir, cfg.ConfigDir)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-9)
	assert.Equal(t, 1000, cfg.ExcerptLimit)
	assert.Equal(t, 5, cfg.MaxRethinks)
	assert.Equal(t, "bash", cfg.Shell)
	assert.Empty(t, cfg.APIKey)
}

func TestConfigurationService_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantModel  string
		wantKey    string
		wantVendor string
	}{
		{
			name:       "openai key and model variables",
			env:        map[string]string{"OPENAI_API_KEY": "sk-openai", "OPENAI_MODEL": "gpt-4o"},
			wantModel:  "gpt-4o",
			wantKey:    "sk-openai",
			wantVendor: "openai",
		},
		{
			name:       "prefixed variables win",
			env:        map[string]string{"OPENAI_API_KEY": "sk-openai", "WANNA_API_KEY": "sk-wanna", "WANNA_MODEL": "gpt-4.1"},
			wantModel:  "gpt-4.1",
			wantKey:    "sk-wanna",
			wantVendor: "openai",
		},
		{
			name:       "anthropic provider uses its own key and default model",
			env:        map[string]string{"WANNA_PROVIDER": "anthropic", "ANTHROPIC_API_KEY": "sk-ant"},
			wantModel:  "claude-3-5-sonnet-20241022",
			wantKey:    "sk-ant",
			wantVendor: "anthropic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearProviderEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := newTestConfigService(t, t.TempDir()).Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantVendor, cfg.Provider)
			assert.Equal(t, tt.wantModel, cfg.Model)
			assert.Equal(t, tt.wantKey, cfg.APIKey)
			assert.NoError(t, cfg.ValidateCredentials())
		})
	}
}

func TestConfigurationService_ConfigDotEnv(t *testing.T) {
	clearProviderEnv(t)
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, ".env"), []byte("OPENAI_API_KEY=sk-from-dotenv\nWANNA_MAX_RETHINKS=2\n"), 0600))
	t.Cleanup(func() {
		_ = os.Unsetenv("OPENAI_API_KEY")
		_ = os.Unsetenv("WANNA_MAX_RETHINKS")
	})

	cfg, err := newTestConfigService(t, configDir).Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-dotenv", cfg.APIKey)
	assert.Equal(t, 2, cfg.MaxRethinks)
}

func TestConfigurationService_UnsupportedProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("WANNA_PROVIDER", "llama")

	_, err := newTestConfigService(t, t.TempDir()).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider 'llama'")
}

func TestConfig_ValidateCredentials(t *testing.T) {
	cfg := &Config{Provider: "gemini"}
	err := cfg.ValidateCredentials()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestConfig_ModelConfig(t *testing.T) {
	cfg := &Config{Provider: "openai", Model: "gpt-4o", Temperature: 0.3}
	model := cfg.ModelConfig()
	assert.Equal(t, "openai", model.Provider)
	assert.Equal(t, "gpt-4o", model.BaseModel)
	assert.InDelta(t, 0.3, model.Temperature, 1e-9)
}
