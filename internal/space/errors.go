package space

import "errors"

var (
	ErrUnknownBackend     = errors.New("space: unknown backend")
	ErrAlreadyInitialized = errors.New("space: runtime already initialized")
	ErrNotInitialized     = errors.New("space: runtime not initialized")
	ErrInvalidConfig      = errors.New("space: invalid configuration")
)
