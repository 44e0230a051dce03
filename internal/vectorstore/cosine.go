package vectorstore

import (
	"math"

	"factrag/internal/domain"
)

// Cosine returns the cosine similarity of a and b.
// Vectors must have equal length. If either vector has zero magnitude the
// similarity is 0, so zero vectors rank below any positive match and never
// introduce NaN into a sort.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &domain.DimensionMismatchError{Expected: len(a), Actual: len(b)}
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// clamp rounding noise
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim, nil
}
