// Package provider adapts model endpoints to model.Provider.
//
// Every adapter is a single blocking request per turn: the whole transcript
// goes out, one textual completion comes back. Failures are reported as
// *model.RequestError so the agent can tell a dead endpoint from a bad answer.
//
//   - OpenRouterProvider: OpenRouter's OpenAI-compatible API (default)
//   - OpenAIProvider: api.openai.com or any compatible base URL
//   - AnthropicProvider: Anthropic Messages API
//   - OllamaProvider: a local Ollama server
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeOpenRouter,
//	    APIKey: key,
//	    Model:  "google/gemma-3n-e2b-it:free",
//	})
//	text, err := p.Complete(ctx, transcript, 3000)
package provider

import "net/http"

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama

	// HTTPClient carries the connect/request timeouts. Nil means NewHTTPClient defaults.
	HTTPClient *http.Client
}
