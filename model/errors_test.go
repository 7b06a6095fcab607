package model

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRequestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *RequestError
		want string
	}{
		{
			name: "timeout",
			err:  &RequestError{Provider: "openrouter", Timeout: true, Err: context.DeadlineExceeded},
			want: "model request error: openrouter request timed out",
		},
		{
			name: "status",
			err:  &RequestError{Provider: "openai", StatusCode: 502, Err: errors.New("bad gateway")},
			want: "model request error: openai returned HTTP 502",
		},
		{
			name: "schema",
			err:  &RequestError{Provider: "ollama", Err: ErrEmptyCompletion},
			want: "model request error: ollama: completion has no content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); !strings.HasPrefix(got, tt.want) {
				t.Errorf("Error() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestRequestErrorUnwrap(t *testing.T) {
	err := error(&RequestError{Provider: "anthropic", Err: ErrUnexpectedSchema})
	if !errors.Is(err, ErrUnexpectedSchema) {
		t.Error("errors.Is did not find the wrapped sentinel")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Provider != "anthropic" {
		t.Errorf("errors.As = %+v", reqErr)
	}
}
