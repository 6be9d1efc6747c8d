// embedding_similarity.go
// Package embeddingsimilarity compares two fixed-length embedding vectors and
// produces a match decision with a calibrated confidence score. Cosine
// similarity is clamped into [0, 1] and checked against a configurable
// threshold; Euclidean and Manhattan distances are reported alongside.
//
// This version uses the functional options pattern to allow configuration of
// parameters like the threshold and logging.
package embeddingsimilarity

import (
	"context"

	"github.com/baditaflorin/go_embedding_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_embedding_similarity/internal/adapters/parser"
	"github.com/baditaflorin/go_embedding_similarity/internal/core/compare"
	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/internal/ports"
	"github.com/baditaflorin/l"
)

// Result holds the outcome of an embedding comparison.
type Result = domain.Result

// Default configuration values.
const (
	DefaultThreshold = domain.DefaultThreshold
	DefaultDimension = domain.DefaultDimension
)

// EmbeddingSimilarity provides methods to compare embeddings using
// configurable parameters.
type EmbeddingSimilarity struct {
	comparator ports.Comparator
	parser     ports.Parser
	logger     ports.Logger
}

// Option defines a functional option for configuring EmbeddingSimilarity.
type Option func(*config)

type config struct {
	Threshold float64
	Logger    ports.Logger
	Parser    ports.Parser
}

// WithThreshold sets a custom default threshold.
func WithThreshold(th float64) Option {
	return func(cfg *config) {
		cfg.Threshold = th
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithFastParser switches serialized-embedding decoding to the
// allocation-conscious parser variant.
func WithFastParser() Option {
	return func(cfg *config) {
		cfg.Parser = parser.NewFastParser()
	}
}

// New creates a new EmbeddingSimilarity with the provided functional options.
// If no logger is provided, a default logger is created.
func New(opts ...Option) (*EmbeddingSimilarity, error) {
	cfg := &config{
		Threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Set up logger if not provided
	if cfg.Logger == nil {
		var err error
		cfg.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	// Set up parser if not provided
	if cfg.Parser == nil {
		cfg.Parser = parser.NewDefaultParser()
	}

	comparator, err := compare.NewComparator(compare.Config{Threshold: cfg.Threshold}, cfg.Logger)
	if err != nil {
		return nil, err
	}

	return &EmbeddingSimilarity{
		comparator: comparator,
		parser:     cfg.Parser,
		logger:     cfg.Logger,
	}, nil
}

// Compare evaluates the two embeddings against the default threshold.
func (es *EmbeddingSimilarity) Compare(ctx context.Context, probe, candidate []float64) (Result, error) {
	return es.comparator.Compare(ctx, probe, candidate)
}

// CompareWithThreshold evaluates the two embeddings against an explicit
// threshold. A threshold outside [0, 1] falls back to the default.
func (es *EmbeddingSimilarity) CompareWithThreshold(ctx context.Context, probe, candidate []float64, threshold float64) (Result, error) {
	return es.comparator.CompareWithThreshold(ctx, probe, candidate, threshold)
}

// CompareSerialized parses the candidate from its serialized JSON array form
// and evaluates it against the probe using the default threshold.
func (es *EmbeddingSimilarity) CompareSerialized(ctx context.Context, probe []float64, candidate string) (Result, error) {
	vec, err := es.parser.Parse(candidate)
	if err != nil {
		return Result{}, err
	}
	return es.comparator.Compare(ctx, probe, vec)
}

// SetThreshold replaces the default threshold for subsequent comparisons.
// It fails if the value is outside [0, 1].
func (es *EmbeddingSimilarity) SetThreshold(threshold float64) error {
	return es.comparator.SetThreshold(threshold)
}

// Threshold returns the current default threshold.
func (es *EmbeddingSimilarity) Threshold() float64 {
	return es.comparator.Threshold()
}

// ParseEmbedding decodes a serialized embedding using the default parser.
func ParseEmbedding(text string) ([]float64, error) {
	return parser.NewDefaultParser().Parse(text)
}
