package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"jarvis/config"
	"jarvis/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements model.Provider using Anthropic's official API.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: Initial model to use (default: "claude-sonnet-4-5-20250929")
//   - httpClient: carries the connect/request timeouts (nil: NewHTTPClient defaults)
func NewAnthropicProvider(baseURL, apiKey, model string, httpClient *http.Client) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0, 0)
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
	}, nil
}

// Complete implements model.Provider. Anthropic requires max_tokens, so a
// non-positive value falls back to 4096.
func (p *AnthropicProvider) Complete(ctx context.Context, messages []model.Message, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	anthropicMessages, systemBlocks := convertToAnthropicMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  anthropicMessages,
		MaxTokens: int64(maxTokens),
	}
	if len(systemBlocks) > 0 {
		params.System = systemBlocks
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] anthropic: requesting %s with %d messages", p.model, len(messages))
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapRequestError("anthropic", err)
	}
	if len(msg.Content) == 0 {
		return "", &model.RequestError{Provider: "anthropic", Err: model.ErrUnexpectedSchema}
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", &model.RequestError{Provider: "anthropic", Err: model.ErrEmptyCompletion}
	}

	return text.String(), nil
}

// ListModels returns a curated list; the SDK version in use has no list endpoint wrapper we rely on.
func (p *AnthropicProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	models := []anthropic.Model{
		anthropic.ModelClaudeSonnet4_5_20250929,
		anthropic.ModelClaude3_5Haiku20241022,
		anthropic.ModelClaude_3_Opus_20240229,
		anthropic.ModelClaude_3_Haiku_20240307,
	}

	result := make([]model.ModelInfo, 0, len(models))
	for _, m := range models {
		result = append(result, model.ModelInfo{
			Name:     string(m),
			Provider: "anthropic",
		})
	}

	return result, nil
}

func (p *AnthropicProvider) GetModel() string {
	return string(p.model)
}

func (p *AnthropicProvider) SetModel(model string) {
	p.model = anthropic.Model(model)
}

// Ping makes a minimal request; Anthropic has no health endpoint.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", wrapRequestError("anthropic", err))
	}
	return nil
}

// convertToAnthropicMessages splits system messages into the separate system
// parameter. The API rejects two consecutive user turns, so adjacent messages
// of the same role are merged; the agent sends the system prompt and the task
// as two user messages.
func convertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(messages))

	var pendingRole model.Role
	var pending []string
	flush := func() {
		if len(pending) == 0 {
			return
		}
		block := anthropic.NewTextBlock(strings.Join(pending, "\n\n"))
		if pendingRole == model.RoleAssistant {
			anthropicMsgs = append(anthropicMsgs, anthropic.NewAssistantMessage(block))
		} else {
			anthropicMsgs = append(anthropicMsgs, anthropic.NewUserMessage(block))
		}
		pending = nil
	}

	for _, msg := range messages {
		role := msg.Role
		switch role {
		case model.RoleSystem:
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: msg.Content})
			continue
		case model.RoleAssistant:
		default:
			role = model.RoleUser
		}

		if role != pendingRole {
			flush()
			pendingRole = role
		}
		pending = append(pending, msg.Content)
	}
	flush()

	return anthropicMsgs, systemBlocks
}
