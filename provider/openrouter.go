package provider

import (
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider connects to OpenRouter's API which is 100% OpenAI-compatible.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a new OpenRouter provider instance.
//
// Parameters:
//   - baseURL: OpenRouter API base URL (default: "https://openrouter.ai/api/v1")
//   - apiKey: OpenRouter API key
//   - model: Initial model to use (default: "google/gemma-3n-e2b-it:free")
//   - httpClient: carries the connect/request timeouts (nil: NewHTTPClient defaults)
func NewOpenRouterProvider(baseURL, apiKey, model string, httpClient *http.Client) (*OpenRouterProvider, error) {
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	if model == "" {
		model = "google/gemma-3n-e2b-it:free"
	}

	inner, err := newChatCompletionsProvider("openrouter", baseURL, apiKey, model, httpClient,
		option.WithHeader("X-Title", "Jarvis"),
	)
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// DisplayName strips the vendor prefix for console output.
// "google/gemma-3n-e2b-it:free" → "gemma-3n-e2b-it:free"
func (p *OpenRouterProvider) DisplayName() string {
	return stripProviderPrefix(p.model)
}

func stripProviderPrefix(modelName string) string {
	if idx := strings.Index(modelName, "/"); idx != -1 {
		return modelName[idx+1:]
	}
	return modelName
}
