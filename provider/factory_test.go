package provider

import (
	"testing"

	"jarvis/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name:   "ollama provider with defaults",
			config: Config{Type: ProviderTypeOllama},
		},
		{
			name: "ollama provider with custom config",
			config: Config{
				Type:    ProviderTypeOllama,
				BaseURL: "http://localhost:11434",
				Model:   "llama3.1",
			},
		},
		{
			name: "openrouter provider",
			config: Config{
				Type:   ProviderTypeOpenRouter,
				Model:  "google/gemma-3n-e2b-it:free",
				APIKey: "test-key",
			},
		},
		{
			name: "openai provider",
			config: Config{
				Type:    ProviderTypeOpenAI,
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
				APIKey:  "test-key",
			},
		},
		{
			name: "anthropic provider",
			config: Config{
				Type:    ProviderTypeAnthropic,
				BaseURL: "https://api.anthropic.com",
				Model:   "claude-sonnet-4-5-20250929",
				APIKey:  "test-key",
			},
		},
		{
			name:        "openrouter without key",
			config:      Config{Type: ProviderTypeOpenRouter},
			expectError: true,
		},
		{
			name:        "openai without key",
			config:      Config{Type: ProviderTypeOpenAI},
			expectError: true,
		},
		{
			name:        "anthropic without key",
			config:      Config{Type: ProviderTypeAnthropic},
			expectError: true,
		},
		{
			name:        "unknown provider type",
			config:      Config{Type: ProviderType("unknown")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if p != nil {
					t.Errorf("expected nil provider, got %T", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var _ model.Provider = p
		})
	}
}

func TestFactoryReturnsConcreteTypes(t *testing.T) {
	p, err := NewProvider(Config{Type: ProviderTypeOllama, Model: "llama3.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*OllamaProvider); !ok {
		t.Errorf("expected *OllamaProvider, got %T", p)
	}
	if p.GetModel() != "llama3.1" {
		t.Errorf("GetModel() = %q", p.GetModel())
	}

	p, err = NewProvider(Config{Type: ProviderTypeOpenRouter, APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	or, ok := p.(*OpenRouterProvider)
	if !ok {
		t.Fatalf("expected *OpenRouterProvider, got %T", p)
	}
	if or.BaseURL() != defaultOpenRouterURL {
		t.Errorf("BaseURL() = %q", or.BaseURL())
	}
	if or.DisplayName() != "gemma-3n-e2b-it:free" {
		t.Errorf("DisplayName() = %q", or.DisplayName())
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := []struct {
		id   string
		want ProviderType
	}{
		{"ollama", ProviderTypeOllama},
		{"openrouter", ProviderTypeOpenRouter},
		{"", ProviderTypeOpenRouter},
		{"openai", ProviderTypeOpenAI},
		{"anthropic", ProviderTypeAnthropic},
		{"bogus", ProviderType("bogus")},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := MapProviderIDToType(tt.id); got != tt.want {
				t.Errorf("MapProviderIDToType(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}

	if RequiresAPIKey(ProviderTypeOllama) {
		t.Error("ollama should not require an API key")
	}
	if !RequiresAPIKey(ProviderTypeOpenRouter) {
		t.Error("openrouter should require an API key")
	}
}
