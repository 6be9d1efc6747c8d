package ports

import (
	"context"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
)

// Comparator defines the interface for comparing two embeddings.
type Comparator interface {
	// Compare evaluates the two embeddings against the default threshold.
	Compare(ctx context.Context, probe, candidate []float64) (domain.Result, error)

	// CompareWithThreshold evaluates the two embeddings against an explicit
	// threshold. An out-of-range threshold falls back to the default.
	CompareWithThreshold(ctx context.Context, probe, candidate []float64, threshold float64) (domain.Result, error)

	// SetThreshold replaces the default threshold for subsequent calls.
	SetThreshold(threshold float64) error

	// Threshold returns the current default threshold.
	Threshold() float64
}
