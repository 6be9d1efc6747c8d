package warmup

import (
	"context"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_embedding_similarity/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Dimension of the sample embeddings used for warmup
	Dimension int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency: runtime.NumCPU(),
		Iterations:  1000,
		Dimension:   512,
		Duration:    5 * time.Second,
		ForceGC:     true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	comparators []ports.Comparator
	parsers     []ports.Parser
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterComparator adds a comparator to be warmed up
func (wm *Manager) RegisterComparator(comp ports.Comparator) {
	wm.comparators = append(wm.comparators, comp)
}

// RegisterParser adds a parser to be warmed up
func (wm *Manager) RegisterParser(p ports.Parser) {
	wm.parsers = append(wm.parsers, p)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.comparators)+len(wm.parsers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
		"dimension", wm.config.Dimension,
	)

	// Create a context with timeout if duration is specified
	var warmupCtx context.Context
	var cancel context.CancelFunc
	if wm.config.Duration > 0 {
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	} else {
		warmupCtx = ctx
	}

	wm.warmUpParsers(warmupCtx)
	wm.warmUpComparators(warmupCtx)

	// Force garbage collection if configured
	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// warmUpParsers runs warmup for all registered parsers
func (wm *Manager) warmUpParsers(ctx context.Context) {
	if len(wm.parsers) == 0 {
		return
	}

	wm.logger.Debug("Warming up parsers", "count", len(wm.parsers))

	serialized := serializeVector(generateSampleVector(wm.config.Dimension, 1))

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				// Check for context cancellation
				select {
				case <-ctx.Done():
					return
				default:
					// Continue
				}

				for _, p := range wm.parsers {
					_, _ = p.Parse(serialized)
				}
			}
		}()
	}

	wg.Wait()
}

// warmUpComparators runs warmup for all registered comparators
func (wm *Manager) warmUpComparators(ctx context.Context) {
	if len(wm.comparators) == 0 {
		return
	}

	wm.logger.Debug("Warming up comparators", "count", len(wm.comparators))

	// Generate sample vectors of different similarity levels
	probe := generateSampleVector(wm.config.Dimension, 1)
	similar := generateSampleVector(wm.config.Dimension, 2)
	different := generateSampleVector(wm.config.Dimension, 7)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				// Check for context cancellation
				select {
				case <-ctx.Done():
					return
				default:
					// Continue
				}

				for _, comp := range wm.comparators {
					// Alternate between different similarity levels
					if j%3 == 0 {
						_, _ = comp.Compare(ctx, probe, probe) // Identical
					} else if j%3 == 1 {
						_, _ = comp.Compare(ctx, probe, similar) // Similar
					} else {
						_, _ = comp.Compare(ctx, probe, different) // Different
					}
				}
			}
		}()
	}

	wg.Wait()
}

// Helper functions for generating warmup data

// generateSampleVector creates a deterministic sample embedding of the given
// dimension. The seed shifts the phase so different seeds yield vectors with
// different pairwise similarities.
func generateSampleVector(dimension, seed int) []float64 {
	if dimension <= 0 {
		dimension = 1
	}
	vec := make([]float64, dimension)
	for i := range vec {
		vec[i] = math.Sin(float64(i*seed+1) * 0.1)
	}
	return vec
}

// serializeVector renders a vector as the JSON array form the parsers accept
func serializeVector(vec []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}
