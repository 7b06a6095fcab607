package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"jarvis/model"
)

var ErrScriptExhausted = errors.New("mock: no more scripted replies")

// MockProvider implements model.Provider for testing. Every Complete call
// records a copy of the transcript it was given.
type MockProvider struct {
	CompleteFunc   func(ctx context.Context, messages []model.Message, maxTokens int) (string, error)
	ListModelsFunc func(ctx context.Context) ([]model.ModelInfo, error)
	PingFunc       func(ctx context.Context) error

	mu           sync.Mutex
	calls        [][]model.Message
	currentModel string
}

// NewMockProvider creates a mock provider that answers every call with a final answer.
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{currentModel: modelName}
	mock.CompleteFunc = func(ctx context.Context, messages []model.Message, maxTokens int) (string, error) {
		return "<final_answer>Mock response</final_answer>", nil
	}
	mock.ListModelsFunc = func(ctx context.Context) ([]model.ModelInfo, error) {
		return []model.ModelInfo{
			{Name: "mock-model-1", Size: 1000, Provider: "mock"},
			{Name: "mock-model-2", Size: 2000, Provider: "mock"},
		}, nil
	}
	mock.PingFunc = func(ctx context.Context) error { return nil }
	return mock
}

// NewScriptedProvider returns replies in order, then ErrScriptExhausted.
func NewScriptedProvider(modelName string, replies ...string) *MockProvider {
	mock := NewMockProvider(modelName)
	var next int
	mock.CompleteFunc = func(ctx context.Context, messages []model.Message, maxTokens int) (string, error) {
		if next >= len(replies) {
			return "", ErrScriptExhausted
		}
		reply := replies[next]
		next++
		return reply, nil
	}
	return mock
}

func (m *MockProvider) Complete(ctx context.Context, messages []model.Message, maxTokens int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]model.Message(nil), messages...))
	m.mu.Unlock()
	return m.CompleteFunc(ctx, messages, maxTokens)
}

// Calls returns the transcripts seen so far, one per Complete call.
func (m *MockProvider) Calls() [][]model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.Message(nil), m.calls...)
}

func (m *MockProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// Transcript builds a short user/assistant exchange for tests.
func Transcript(contents ...string) []model.Message {
	msgs := make([]model.Message, len(contents))
	for i, c := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs[i] = model.Message{Role: role, Content: c, Timestamp: time.Now()}
	}
	return msgs
}
