// Package metric implements the distance and similarity functions of the
// comparison engine. All functions are deterministic, run in O(n) time and
// O(1) extra space, and validate their inputs before computing.
package metric

import (
	"fmt"
	"math"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/internal/core/vector"
)

// Cosine computes the cosine similarity between two embeddings, clamped into
// [0, 1]. The raw cosine ranges over [-1, 1]; negative correlation is
// deliberately mapped to 0, the same value as orthogonality. A zero-magnitude
// vector is treated as maximally dissimilar to everything, including another
// zero vector, so either norm being zero yields 0 instead of dividing by zero.
func Cosine(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
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
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, nil
}

// Euclidean computes the L2 distance between two embeddings. The result is
// unbounded and always >= 0.
func Euclidean(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Manhattan computes the L1 distance between two embeddings. The result is
// unbounded and always >= 0.
func Manhattan(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}

	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum, nil
}

func check(a, b []float64) error {
	if !vector.IsValid(a, b) {
		return fmt.Errorf("metric: %w", domain.ErrInvalidEmbedding)
	}
	if len(a) != len(b) {
		return fmt.Errorf("metric: %d vs %d: %w", len(a), len(b), domain.ErrDimensionMismatch)
	}
	return nil
}
