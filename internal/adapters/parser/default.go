// Package parser implements the boundary that converts untrusted serialized
// embeddings into typed vectors the rest of the engine can trust. Embeddings
// arrive from the persistence layer as JSON arrays of numbers.
package parser

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/internal/core/vector"
	"github.com/baditaflorin/go_embedding_similarity/internal/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultParser decodes serialized embeddings through a JSON decoder.
type DefaultParser struct{}

// NewDefaultParser creates a new default parser.
func NewDefaultParser() ports.Parser {
	return &DefaultParser{}
}

// Parse decodes text into an embedding. The decoded values are returned
// unchanged: no normalization or rescaling happens here. Anything that is
// not a non-empty JSON array of finite numbers fails.
func (p *DefaultParser) Parse(text string) ([]float64, error) {
	var vec []float64
	if err := json.UnmarshalFromString(text, &vec); err != nil {
		return nil, fmt.Errorf("parser: decode: %v: %w", err, domain.ErrInvalidFormat)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("parser: empty embedding: %w", domain.ErrInvalidFormat)
	}
	if !vector.IsWellFormed(vec) {
		return nil, fmt.Errorf("parser: non-finite element: %w", domain.ErrInvalidFormat)
	}
	return vec, nil
}
