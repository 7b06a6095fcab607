package provider

import (
	"fmt"

	"jarvis/model"
)

// NewProvider creates a provider based on configuration.
//
// Returns an error if the provider type is unknown or the provider-specific
// constructor fails (missing API key, invalid URL).
//
// Example:
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeOllama,
//	    BaseURL: "http://localhost:11434",
//	    Model:   "llama3.1",
//	})
func NewProvider(cfg Config) (model.Provider, error) {
	var (
		p   model.Provider
		err error
	)
	// Assign only on success: a nil *T stored in p is a non-nil interface.
	switch cfg.Type {
	case ProviderTypeOllama:
		var op *OllamaProvider
		if op, err = NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.HTTPClient); err == nil {
			p = op
		}
	case ProviderTypeOpenRouter:
		var op *OpenRouterProvider
		if op, err = NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient); err == nil {
			p = op
		}
	case ProviderTypeOpenAI:
		var op *OpenAIProvider
		if op, err = NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient); err == nil {
			p = op
		}
	case ProviderTypeAnthropic:
		var ap *AnthropicProvider
		if ap, err = NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient); err == nil {
			p = ap
		}
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MapProviderIDToType converts config provider ID to factory ProviderType.
//
// For unknown IDs, returns the ID cast as ProviderType (factory will error).
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter", "":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}

// RequiresAPIKey reports whether the provider type needs a credential.
func RequiresAPIKey(t ProviderType) bool {
	return t != ProviderTypeOllama
}
