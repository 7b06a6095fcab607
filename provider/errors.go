package provider

import (
	"context"
	"errors"
	"net"

	"jarvis/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// wrapRequestError classifies an SDK error into a *model.RequestError,
// pulling out the HTTP status and whether a timeout fired.
func wrapRequestError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var existing *model.RequestError
	if errors.As(err, &existing) {
		return err
	}

	reqErr := &model.RequestError{Provider: provider, Err: err}

	if errors.Is(err, context.DeadlineExceeded) {
		reqErr.Timeout = true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		reqErr.Timeout = true
	}

	var openaiErr *openai.Error
	var anthropicErr *anthropic.Error
	var ollamaErr api.StatusError
	switch {
	case errors.As(err, &openaiErr):
		reqErr.StatusCode = openaiErr.StatusCode
	case errors.As(err, &anthropicErr):
		reqErr.StatusCode = anthropicErr.StatusCode
	case errors.As(err, &ollamaErr):
		reqErr.StatusCode = ollamaErr.StatusCode
	}

	return reqErr
}
