// Package compare implements the decision engine: it resolves the effective
// threshold, computes the similarity and distance metrics, and derives the
// match verdict and confidence score.
package compare

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/internal/core/metric"
	"github.com/baditaflorin/go_embedding_similarity/internal/ports"
)

// Config holds configuration for the comparator.
type Config struct {
	Threshold float64
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Threshold: domain.DefaultThreshold,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 || math.IsNaN(c.Threshold) {
		return fmt.Errorf("compare: %w", domain.ErrInvalidThreshold)
	}
	return nil
}

// Comparator implements the embedding comparison decision logic.
//
// The default threshold is held as IEEE 754 bits in an atomic word so that
// concurrent SetThreshold and Compare calls never observe a partially written
// value. Comparisons holding an explicit override are unaffected by
// concurrent mutation.
type Comparator struct {
	threshold atomic.Uint64
	logger    ports.Logger
}

// NewComparator creates a new comparator.
func NewComparator(config Config, logger ports.Logger) (*Comparator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Comparator{logger: logger}
	c.threshold.Store(math.Float64bits(config.Threshold))
	return c, nil
}

// Threshold returns the current default threshold.
func (c *Comparator) Threshold() float64 {
	return math.Float64frombits(c.threshold.Load())
}

// SetThreshold replaces the default threshold for subsequent comparisons.
// It fails if the value is outside [0, 1]. In-flight comparisons keep the
// threshold they already resolved.
func (c *Comparator) SetThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		c.logger.Error("Rejected threshold update", "threshold", threshold)
		return fmt.Errorf("compare: set threshold %v: %w", threshold, domain.ErrInvalidThreshold)
	}
	c.threshold.Store(math.Float64bits(threshold))
	c.logger.Info("Updated default threshold", "threshold", threshold)
	return nil
}

// Compare evaluates the two embeddings against the default threshold.
func (c *Comparator) Compare(ctx context.Context, probe, candidate []float64) (domain.Result, error) {
	return c.compute(ctx, probe, candidate, c.Threshold())
}

// CompareWithThreshold evaluates the two embeddings against an explicit
// threshold. A threshold outside [0, 1] is ignored and the default is used
// instead.
func (c *Comparator) CompareWithThreshold(ctx context.Context, probe, candidate []float64, threshold float64) (domain.Result, error) {
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		c.logger.Warn("Ignoring out-of-range threshold override",
			"threshold", threshold,
			"default", c.Threshold(),
		)
		threshold = c.Threshold()
	}
	return c.compute(ctx, probe, candidate, threshold)
}

func (c *Comparator) compute(ctx context.Context, probe, candidate []float64, threshold float64) (domain.Result, error) {
	c.logger.Debug("Starting embedding comparison",
		"probe_dimension", len(probe),
		"candidate_dimension", len(candidate),
		"threshold", threshold,
	)

	details := make(map[string]interface{})

	// Check for context cancellation.
	select {
	case <-ctx.Done():
		c.logger.Error("Comparison cancelled", "error", ctx.Err())
		details["error"] = "comparison cancelled"
		return domain.Result{
			Name:    "embedding_comparison",
			Details: details,
		}, ctx.Err()
	default:
		// continue
	}

	similarity, err := metric.Cosine(probe, candidate)
	if err != nil {
		c.logger.Error("Cosine similarity failed", "error", err)
		return domain.Result{}, err
	}
	euclidean, err := metric.Euclidean(probe, candidate)
	if err != nil {
		c.logger.Error("Euclidean distance failed", "error", err)
		return domain.Result{}, err
	}
	manhattan, err := metric.Manhattan(probe, candidate)
	if err != nil {
		c.logger.Error("Manhattan distance failed", "error", err)
		return domain.Result{}, err
	}

	match := similarity >= threshold
	conf := confidence(similarity, threshold)

	details["dimension"] = len(probe)
	details["threshold"] = threshold

	c.logger.Debug("Computed embedding comparison",
		"similarity", similarity,
		"euclidean_distance", euclidean,
		"manhattan_distance", manhattan,
		"match", match,
		"confidence", conf,
	)

	return domain.Result{
		Name:              "embedding_comparison",
		Match:             match,
		Similarity:        similarity,
		EuclideanDistance: euclidean,
		ManhattanDistance: manhattan,
		Threshold:         threshold,
		Confidence:        conf,
		Details:           details,
	}, nil
}

// confidence maps similarity onto [0, 1] relative to the threshold. The two
// branches are continuous at similarity == threshold, where both evaluate to
// the threshold itself.
func confidence(similarity, threshold float64) float64 {
	if similarity >= threshold {
		// A threshold of 1 leaves no excess range above it.
		if threshold >= 1 {
			return 1
		}
		maxExcess := 1 - threshold
		conf := threshold + ((similarity-threshold)/maxExcess)*maxExcess
		if conf > 1 {
			conf = 1
		}
		return conf
	}
	if threshold == 0 {
		return 0
	}
	return similarity / threshold
}
