package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"jarvis/config"
	"jarvis/model"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
// OpenRouterProvider embeds it with a different base URL and name.
type OpenAIProvider struct {
	client  openai.Client
	name    string
	model   string
	baseURL string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.openai.com/v1")
//   - apiKey: API key (required)
//   - model: Initial model to use (default: "gpt-4o-mini")
//   - httpClient: carries the connect/request timeouts (nil: NewHTTPClient defaults)
func NewOpenAIProvider(baseURL, apiKey, model string, httpClient *http.Client) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return newChatCompletionsProvider("openai", baseURL, apiKey, model, httpClient)
}

func newChatCompletionsProvider(name, baseURL, apiKey, model string, httpClient *http.Client, extra ...option.RequestOption) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0, 0)
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		// Model errors end the run; nothing here retries.
		option.WithMaxRetries(0),
	}
	opts = append(opts, extra...)

	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		name:    name,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Complete implements model.Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []model.Message, maxTokens int) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messages),
		Model:    openai.ChatModel(p.model),
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] %s: requesting %s with %d messages", p.name, p.model, len(messages))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapRequestError(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", &model.RequestError{Provider: p.name, Err: model.ErrUnexpectedSchema}
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &model.RequestError{Provider: p.name, Err: model.ErrEmptyCompletion}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] %s: got %d chars (finish_reason=%s)", p.name, len(content), resp.Choices[0].FinishReason)
	}
	return content, nil
}

// ListModels implements model.Provider.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	modelsPage, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s models: %w", p.name, wrapRequestError(p.name, err))
	}

	result := make([]model.ModelInfo, 0, len(modelsPage.Data))
	for _, m := range modelsPage.Data {
		result = append(result, model.ModelInfo{
			Name:     m.ID,
			Provider: p.name,
		})
	}

	return result, nil
}

func (p *OpenAIProvider) GetModel() string {
	return p.model
}

func (p *OpenAIProvider) SetModel(model string) {
	p.model = model
}

func (p *OpenAIProvider) BaseURL() string {
	return p.baseURL
}

// Ping attempts to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", p.name, wrapRequestError(p.name, err))
	}
	return nil
}

// ConvertToOpenAIMessages converts transcript messages to OpenAI format.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result[i] = openai.SystemMessage(msg.Content)
		case model.RoleAssistant:
			result[i] = openai.AssistantMessage(msg.Content)
		default:
			result[i] = openai.UserMessage(msg.Content)
		}
	}

	return result
}
