package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch reports vectors of different lengths where equal
	// lengths are required.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrEmbeddingUnavailable wraps any failure of the embedding provider.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrChatUnavailable wraps any failure of the chat provider.
	ErrChatUnavailable = errors.New("chat unavailable")
	// ErrInvalidQuery is returned for empty or whitespace-only queries.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotReady is returned when a query arrives before ingestion succeeded.
	ErrNotReady = errors.New("pipeline not ready")
)

// DimensionMismatchError carries the expected and actual lengths.
// It matches ErrDimensionMismatch with errors.Is.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// WrapEmbedding marks err as an embedding provider failure unless it
// already is one.
func WrapEmbedding(err error) error {
	if err == nil || errors.Is(err, ErrEmbeddingUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
}

// WrapChat marks err as a chat provider failure unless it already is one.
func WrapChat(err error) error {
	if err == nil || errors.Is(err, ErrChatUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrChatUnavailable, err)
}
