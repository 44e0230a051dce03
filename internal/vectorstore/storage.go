package vectorstore

import "factrag/internal/domain"

// Store holds embedded facts. It is append-only: records cannot be removed
// or modified once added.
type Store interface {
	// Append adds a record. The first record fixes the store's dimension;
	// later records of a different length fail with domain.ErrDimensionMismatch.
	Append(text string, embedding []float64) error
	// All returns the records in insertion order. Callers must not modify them.
	All() []domain.Record
	Len() int
	// Dimension is 0 until the first record is appended.
	Dimension() int
}
