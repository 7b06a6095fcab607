package tools

import "errors"

var (
	ErrToolNameEmpty         = errors.New("tool name cannot be empty")
	ErrToolFuncNil           = errors.New("tool function cannot be nil")
	ErrToolAlreadyRegistered = errors.New("tool already registered")

	// ErrOutsideProject is returned when a path resolves outside the project directory.
	ErrOutsideProject = errors.New("path is outside the project directory")

	ErrMissingArg     = errors.New("missing required argument")
	ErrInvalidArgType = errors.New("invalid argument type")
)
