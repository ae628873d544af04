package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNoTextExtracted    = errors.New("no text extracted from document")
	ErrNoStructuredOutput = errors.New("no structured output returned from model")
	ErrInvalidDocument    = errors.New("invalid document")
	ErrProviderFailure    = errors.New("provider failure")
)
