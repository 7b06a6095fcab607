package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCompletion  = errors.New("completion has no content")
	ErrUnexpectedSchema = errors.New("response is missing the completion field")
)

// RequestError is a failed model call. It always ends the current run.
type RequestError struct {
	Provider   string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("model request error: %s request timed out: %v", e.Provider, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("model request error: %s returned HTTP %d: %v", e.Provider, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("model request error: %s: %v", e.Provider, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
