package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ollama/ollama/api"

	"jarvis/config"
	"jarvis/model"
	"jarvis/ollama"
)

// OllamaProvider wraps ollama.Client to implement model.Provider.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL (default: "http://localhost:11434")
//   - model: The model name to use (default: "llama3.1:latest")
//   - httpClient: carries the connect/request timeouts (nil: NewHTTPClient defaults)
func NewOllamaProvider(baseURL, model string, httpClient *http.Client) (*OllamaProvider, error) {
	if httpClient == nil {
		httpClient = NewHTTPClient(0, 0)
	}
	client, err := ollama.NewClient(baseURL, model, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

// Complete implements model.Provider.
func (p *OllamaProvider) Complete(ctx context.Context, messages []model.Message, maxTokens int) (string, error) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] ollama: requesting %s with %d messages", p.client.GetModel(), len(messages))
	}

	content, err := p.client.Chat(ctx, toOllamaMessages(messages), maxTokens)
	if err != nil {
		return "", wrapRequestError("ollama", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", &model.RequestError{Provider: "ollama", Err: model.ErrEmptyCompletion}
	}
	return content, nil
}

// ListModels implements model.Provider.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	models, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, wrapRequestError("ollama", err)
	}

	result := make([]model.ModelInfo, len(models))
	for i, m := range models {
		result[i] = model.ModelInfo{
			Name:     m.Name,
			Size:     m.Size,
			Provider: "ollama",
		}
	}
	return result, nil
}

func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) SetModel(model string) {
	p.client.SetModel(model)
}

func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", wrapRequestError("ollama", err))
	}
	return nil
}

// toOllamaMessages drops timestamps; the Ollama chat API has no field for them.
func toOllamaMessages(messages []model.Message) []api.Message {
	out := make([]api.Message, len(messages))
	for i, msg := range messages {
		out[i] = api.Message{Role: string(msg.Role), Content: msg.Content}
	}
	return out
}
