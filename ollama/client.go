package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

type Client struct {
	client *api.Client
	model  string
}

// NewClient wraps the Ollama API client. httpClient may be nil, in which case
// http.DefaultClient is used.
func NewClient(baseURL, model string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1:latest"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Client{
		client: api.NewClient(parsedURL, httpClient),
		model:  model,
	}, nil
}

// Chat sends a non-streaming chat request and returns the assistant content.
// maxTokens <= 0 leaves the model default in place.
func (c *Client) Chat(ctx context.Context, messages []api.Message, maxTokens int) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
	}
	if maxTokens > 0 {
		req.Options = map[string]any{"num_predict": maxTokens}
	}

	var content strings.Builder
	respFunc := func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	}

	if err := c.client.Chat(ctx, req, respFunc); err != nil {
		return "", err
	}
	return content.String(), nil
}

type ModelInfo struct {
	Name string
	Size int64
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]ModelInfo, len(resp.Models))
	for i, model := range resp.Models {
		models[i] = ModelInfo{
			Name: model.Name,
			Size: model.Size,
		}
	}

	return models, nil
}

func (c *Client) SetModel(model string) {
	c.model = model
}

func (c *Client) GetModel() string {
	return c.model
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.client.Heartbeat(ctx)
}
