package chunk

import "errors"

var (
	// ErrInvalidConfig indicates a chunking configuration failed validation.
	ErrInvalidConfig = errors.New("invalid chunk config")

	// ErrInvalidMaxAttempts indicates a retry was requested with a
	// non-positive attempt budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be > 0")

	// ErrEmbeddingMismatch indicates the embedder returned a different number
	// of vectors than sentences submitted.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)
