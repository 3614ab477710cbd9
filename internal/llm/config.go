// Package llm provides the model configuration and client used by the bullet rewriter.
package llm

import "fmt"

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short single-sentence rewrites
	TierLite ModelTier = "lite"
	// TierStandard is the default rewriting tier
	TierStandard ModelTier = "standard"
	// TierAdvanced is for rewrites that must respect many constraints at once
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps rewrites close to the source text
const DefaultTemperature float32 = 0.1

// DefaultMaxOutputTokens bounds a rewrite; answers are one sentence
const DefaultMaxOutputTokens int32 = 256

// Config holds the model configuration for the application
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModels returns a copy of the config with the given tier overrides applied.
// Keys must be known tier names.
func (c *Config) WithModels(overrides map[string]string) (*Config, error) {
	out := &Config{
		Provider:        c.Provider,
		Models:          make(map[ModelTier]string, len(c.Models)),
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	for name, model := range overrides {
		tier := ModelTier(name)
		switch tier {
		case TierLite, TierStandard, TierAdvanced:
		default:
			return nil, fmt.Errorf("unknown model tier %q", name)
		}
		if model != "" {
			out.Models[tier] = model
		}
	}
	return out, nil
}
