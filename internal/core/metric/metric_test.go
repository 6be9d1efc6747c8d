package metric

import (
	"errors"
	"math"
	"testing"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
)

const epsilon = 1e-9

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{
			name:     "Identical vectors",
			a:        []float64{1, 0, 0},
			b:        []float64{1, 0, 0},
			expected: 1,
		},
		{
			name:     "Orthogonal vectors",
			a:        []float64{1, 0, 0},
			b:        []float64{0, 1, 0},
			expected: 0,
		},
		{
			name: "Opposite vectors clamp to zero",
			a:    []float64{1, 0, 0},
			b:    []float64{-1, 0, 0},
			// Raw cosine is -1; negative correlation maps to 0.
			expected: 0,
		},
		{
			name: "Magnitude is ignored",
			a:    []float64{1, 0, 0},
			b:    []float64{0.5, 0, 0},
			expected: 1,
		},
		{
			name:     "Zero vector",
			a:        []float64{0, 0, 0},
			b:        []float64{1, 0, 0},
			expected: 0,
		},
		{
			name:     "Zero vector against itself",
			a:        []float64{0, 0, 0},
			b:        []float64{0, 0, 0},
			expected: 0,
		},
		{
			name:     "Similar vectors",
			a:        []float64{1, 0.1, 0},
			b:        []float64{1, 0.15, 0.05},
			expected: 0.9975, // approximately
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Cosine(tc.a, tc.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tolerance := epsilon
			if tc.name == "Similar vectors" {
				tolerance = 0.01
			}
			if math.Abs(got-tc.expected) > tolerance {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
			if got < 0 || got > 1 {
				t.Errorf("cosine %v outside [0,1]", got)
			}
		})
	}
}

func TestEuclidean(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{
			name:     "Identical vectors",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 2, 3},
			expected: 0,
		},
		{
			name:     "Unit step",
			a:        []float64{0, 0},
			b:        []float64{3, 4},
			expected: 5,
		},
		{
			name:     "Negative components",
			a:        []float64{-1, 0},
			b:        []float64{1, 0},
			expected: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Euclidean(tc.a, tc.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.expected) > epsilon {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestManhattan(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{
			name:     "Identical vectors",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 2, 3},
			expected: 0,
		},
		{
			name:     "Mixed signs",
			a:        []float64{1, -1, 0.5},
			b:        []float64{-1, 1, 0},
			expected: 4.5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Manhattan(tc.a, tc.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.expected) > epsilon {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSymmetry(t *testing.T) {
	a := []float64{0.3, -1.2, 4.5, 0.01}
	b := []float64{-0.7, 2.2, 1.5, 0.99}

	metrics := map[string]func(x, y []float64) (float64, error){
		"cosine":    Cosine,
		"euclidean": Euclidean,
		"manhattan": Manhattan,
	}

	for name, fn := range metrics {
		t.Run(name, func(t *testing.T) {
			ab, err := fn(a, b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ba, err := fn(b, a)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(ab-ba) > epsilon {
				t.Errorf("expected symmetric results, got %v and %v", ab, ba)
			}
		})
	}
}

func TestMetricErrors(t *testing.T) {
	valid := []float64{1, 2, 3}

	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected error
	}{
		{
			name:     "Dimension mismatch",
			a:        valid,
			b:        []float64{1, 2},
			expected: domain.ErrDimensionMismatch,
		},
		{
			name:     "Nil vector",
			a:        nil,
			b:        valid,
			expected: domain.ErrInvalidEmbedding,
		},
		{
			name:     "Empty vector",
			a:        valid,
			b:        []float64{},
			expected: domain.ErrInvalidEmbedding,
		},
		{
			name:     "NaN element",
			a:        []float64{1, math.NaN(), 3},
			b:        valid,
			expected: domain.ErrInvalidEmbedding,
		},
	}

	metrics := map[string]func(x, y []float64) (float64, error){
		"cosine":    Cosine,
		"euclidean": Euclidean,
		"manhattan": Manhattan,
	}

	for _, tc := range tests {
		for name, fn := range metrics {
			t.Run(tc.name+"/"+name, func(t *testing.T) {
				_, err := fn(tc.a, tc.b)
				if !errors.Is(err, tc.expected) {
					t.Errorf("expected %v, got %v", tc.expected, err)
				}
			})
		}
	}
}

func TestCosineSelfSimilarity(t *testing.T) {
	v := []float64{0.2, -0.4, 0.6, 0.8, -1.0}
	got, err := Cosine(v, v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1) > epsilon {
		t.Errorf("expected self-similarity 1, got %v", got)
	}
}
