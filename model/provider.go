package model

import "context"

// Provider abstracts the model endpoint. Implementations live in the provider
// package; the interface sits here so agent code can depend on it without
// importing any SDK.
type Provider interface {
	// Complete sends the whole transcript and returns the single textual
	// completion. Transport failures, non-2xx responses and responses
	// without content are errors.
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)

	// ListModels returns the model identifiers the endpoint advertises.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	GetModel() string
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

type ModelInfo struct {
	Name     string
	Size     int64
	Provider string
}
