package compare

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/internal/warmup"
)

func TestComparatorFacade(t *testing.T) {
	c, err := New(WithThreshold(0.8), WithFastParser())
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}
	ctx := context.Background()

	result, err := c.Compare(ctx, []float64{1, 0, 0}, []float64{1, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Match || result.Threshold != 0.8 {
		t.Errorf("unexpected result: %+v", result)
	}

	result, err = c.CompareWithThreshold(ctx, []float64{1, 0, 0}, []float64{0, 1, 0}, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Match || result.Threshold != 0.2 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestComparatorSerializedFlow(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}
	ctx := context.Background()

	result, err := c.CompareSerialized(ctx, []float64{0.5, 0.5}, "[0.5, 0.5]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Match {
		t.Errorf("expected match, got %+v", result)
	}

	if _, err := c.CompareSerialized(ctx, []float64{0.5}, `["a"]`); !errors.Is(err, domain.ErrInvalidFormat) {
		t.Errorf("expected invalid format error, got %v", err)
	}

	vec, err := c.Parse("[1,2,3]")
	if err != nil || len(vec) != 3 {
		t.Errorf("unexpected parse result: %v, %v", vec, err)
	}
}

func TestComparatorWarmUp(t *testing.T) {
	wc := warmup.DefaultWarmupConfig()
	wc.Concurrency = 2
	wc.Iterations = 5
	wc.Dimension = 16
	wc.Duration = time.Second
	wc.ForceGC = false

	c, err := New(WithWarmUpConfig(wc))
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}
	if !c.warmed {
		t.Error("expected comparator to be warmed")
	}
}
