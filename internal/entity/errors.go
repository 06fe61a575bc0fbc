package entity

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of them, the HTTP layer
// maps kinds to status codes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrProcessing   = errors.New("processing error")
)

// Domain errors
var (
	// Upload errors
	ErrMissingField    = fmt.Errorf("%w: required field is missing", ErrInvalidInput)
	ErrEmptyFile       = fmt.Errorf("%w: file is empty", ErrInvalidInput)
	ErrInvalidFileType = fmt.Errorf("%w: file is not a PDF", ErrInvalidInput)
	ErrFileTooLarge    = fmt.Errorf("%w: file too large", ErrInvalidInput)
	ErrInvalidFormat   = fmt.Errorf("%w: invalid format", ErrInvalidInput)

	// Lookup errors
	ErrDocumentNotFound = fmt.Errorf("%w: document not found", ErrNotFound)
	ErrChatDisabled     = fmt.Errorf("%w: document not processed for chat", ErrNotFound)
	ErrPageNotFound     = fmt.Errorf("%w: page not found", ErrNotFound)

	// Pipeline errors
	ErrExtraction = fmt.Errorf("%w: could not extract text from PDF", ErrProcessing)
	ErrIndexing   = fmt.Errorf("%w: could not build document index", ErrProcessing)
	ErrAnswer     = fmt.Errorf("%w: could not generate answer", ErrProcessing)
)

// Processing tags err as a processing error while keeping the cause in the chain.
func Processing(kind error, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
