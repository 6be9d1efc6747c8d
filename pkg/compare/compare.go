// Package compare exposes the full-featured comparison facade, including
// parser selection and system warmup.
package compare

import (
	"context"

	"github.com/baditaflorin/go_embedding_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_embedding_similarity/internal/adapters/parser"
	"github.com/baditaflorin/go_embedding_similarity/internal/core/compare"
	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/internal/ports"
	"github.com/baditaflorin/go_embedding_similarity/internal/warmup"
	"github.com/baditaflorin/l"
)

// Result holds the outcome of an embedding comparison.
type Result = domain.Result

// Comparator provides methods to compare embeddings and to decode serialized
// embeddings at the trust boundary.
type Comparator struct {
	comparator ports.Comparator
	parser     ports.Parser
	logger     ports.Logger
	warmed     bool
}

// ComparatorOption defines a functional option for configuring a Comparator.
type ComparatorOption func(*comparatorConfig)

type comparatorConfig struct {
	Threshold    float64
	Logger       ports.Logger
	Parser       ports.Parser
	WarmUp       bool
	WarmUpConfig warmup.WarmupConfig
}

// WithThreshold sets a custom default threshold.
func WithThreshold(th float64) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.Threshold = th
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithParser sets a custom serialized-embedding parser.
func WithParser(p ports.Parser) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.Parser = p
	}
}

// WithFastParser switches decoding to the allocation-conscious parser variant.
func WithFastParser() ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.Parser = parser.NewFastParser()
	}
}

// WithWarmUp enables a warmup pass during construction.
func WithWarmUp(enabled bool) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.WarmUp = enabled
	}
}

// WithWarmUpConfig sets a custom warmup configuration.
func WithWarmUpConfig(wc warmup.WarmupConfig) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.WarmUp = true
		cfg.WarmUpConfig = wc
	}
}

// New creates a new Comparator instance.
func New(opts ...ComparatorOption) (*Comparator, error) {
	defaultConfig := compare.DefaultConfig()

	cfg := &comparatorConfig{
		Threshold:    defaultConfig.Threshold,
		WarmUpConfig: warmup.DefaultWarmupConfig(),
	}

	// Apply options
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

	// Create core comparator
	core, err := compare.NewComparator(compare.Config{Threshold: cfg.Threshold}, cfg.Logger)
	if err != nil {
		return nil, err
	}

	c := &Comparator{
		comparator: core,
		parser:     cfg.Parser,
		logger:     cfg.Logger,
	}

	if cfg.WarmUp {
		manager := warmup.NewManager(cfg.Logger, cfg.WarmUpConfig)
		manager.RegisterComparator(core)
		manager.RegisterParser(cfg.Parser)
		manager.WarmUp(context.Background())
		c.warmed = true
	}

	return c, nil
}

// Compare evaluates the two embeddings against the default threshold.
func (c *Comparator) Compare(ctx context.Context, probe, candidate []float64) (Result, error) {
	return c.comparator.Compare(ctx, probe, candidate)
}

// CompareWithThreshold evaluates the two embeddings against an explicit
// threshold. A threshold outside [0, 1] falls back to the default.
func (c *Comparator) CompareWithThreshold(ctx context.Context, probe, candidate []float64, threshold float64) (Result, error) {
	return c.comparator.CompareWithThreshold(ctx, probe, candidate, threshold)
}

// CompareSerialized parses the candidate from its serialized JSON array form
// and evaluates it against the probe using the default threshold.
func (c *Comparator) CompareSerialized(ctx context.Context, probe []float64, candidate string) (Result, error) {
	vec, err := c.parser.Parse(candidate)
	if err != nil {
		return Result{}, err
	}
	return c.comparator.Compare(ctx, probe, vec)
}

// Parse decodes a serialized embedding using the configured parser.
func (c *Comparator) Parse(text string) ([]float64, error) {
	return c.parser.Parse(text)
}

// SetThreshold replaces the default threshold for subsequent comparisons.
// It fails if the value is outside [0, 1].
func (c *Comparator) SetThreshold(threshold float64) error {
	return c.comparator.SetThreshold(threshold)
}

// Threshold returns the current default threshold.
func (c *Comparator) Threshold() float64 {
	return c.comparator.Threshold()
}
