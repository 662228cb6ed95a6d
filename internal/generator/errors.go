package generator

import "errors"

var (
	// ErrAI is returned when the model could not produce usable content.
	// Details are logged, never returned.
	ErrAI = errors.New("AI_ERROR")

	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("INVALID_REQUEST")
)
