package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, DefaultTemperature, config.Temperature)
	assert.Equal(t, DefaultMaxOutputTokens, config.MaxOutputTokens)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))

	empty := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierAdvanced))
}

func TestWithModels(t *testing.T) {
	config := DefaultConfig()

	updated, err := config.WithModels(map[string]string{"advanced": "custom-model", "lite": ""})
	require.NoError(t, err)
	assert.Equal(t, "custom-model", updated.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", updated.GetModel(TierLite), "empty override keeps default")
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced), "original is unchanged")
	assert.Equal(t, config.MaxOutputTokens, updated.MaxOutputTokens)

	_, err = config.WithModels(map[string]string{"huge": "x"})
	assert.Error(t, err)
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(context.Background(), DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")

	_, err = NewClient(context.Background(), &Config{Provider: "openai"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
