package domain

import "errors"

var (
	// ErrInvalidEmbedding is returned when an input vector fails validation:
	// nil, empty, or containing a non-finite element.
	ErrInvalidEmbedding = errors.New("invalid embedding")
	// ErrDimensionMismatch is returned when two embeddings being compared
	// have different lengths.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrInvalidFormat is returned when a serialized embedding cannot be
	// decoded into a valid vector.
	ErrInvalidFormat = errors.New("invalid embedding format")
	// ErrInvalidThreshold is returned when a threshold outside [0, 1] is
	// supplied to a mutator or constructor.
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")
)
