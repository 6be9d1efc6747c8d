package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/internal/ports"
)

func parsers() map[string]ports.Parser {
	return map[string]ports.Parser{
		"default": NewDefaultParser(),
		"fast":    NewFastParser(),
	}
}

func TestParseValid(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []float64
	}{
		{
			name:     "Simple array",
			text:     "[0.1,0.2,0.3]",
			expected: []float64{0.1, 0.2, 0.3},
		},
		{
			name:     "Whitespace tolerated",
			text:     " [ 0.1 , -0.2 ,\n 3 ] ",
			expected: []float64{0.1, -0.2, 3},
		},
		{
			name:     "Integers and exponents",
			text:     "[1,2e-3,-4.5E2]",
			expected: []float64{1, 0.002, -450},
		},
		{
			name:     "Single element",
			text:     "[42]",
			expected: []float64{42},
		},
		{
			name:     "Zero vector",
			text:     "[0,0,0]",
			expected: []float64{0, 0, 0},
		},
	}

	for name, p := range parsers() {
		for _, tc := range tests {
			t.Run(tc.name+"/"+name, func(t *testing.T) {
				got, err := p.Parse(tc.text)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(got) != len(tc.expected) {
					t.Fatalf("expected %d elements, got %d", len(tc.expected), len(got))
				}
				for i := range got {
					if math.Abs(got[i]-tc.expected[i]) > 1e-12 {
						t.Errorf("element %d: expected %v, got %v", i, tc.expected[i], got[i])
					}
				}
			})
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "Not JSON", text: "not json"},
		{name: "Empty array", text: "[]"},
		{name: "JSON string", text: `"str"`},
		{name: "String elements", text: `["a","b"]`},
		{name: "Empty input", text: ""},
		{name: "JSON object", text: `{"a":1}`},
		{name: "JSON null", text: "null"},
		{name: "Null element", text: "[1,null,3]"},
		{name: "Trailing comma", text: "[1,2,]"},
		{name: "Bare number", text: "42"},
		{name: "Overflowing element", text: "[1e999]"},
		{name: "Nested array", text: "[[1,2]]"},
	}

	for name, p := range parsers() {
		for _, tc := range tests {
			t.Run(tc.name+"/"+name, func(t *testing.T) {
				_, err := p.Parse(tc.text)
				if !errors.Is(err, domain.ErrInvalidFormat) {
					t.Errorf("expected invalid format error, got %v", err)
				}
			})
		}
	}
}

func TestParseReturnsValuesUnchanged(t *testing.T) {
	// No normalization or rescaling happens at the parse boundary.
	text := "[100.5,-200.25,0.0001]"
	expected := []float64{100.5, -200.25, 0.0001}

	for name, p := range parsers() {
		t.Run(name, func(t *testing.T) {
			got, err := p.Parse(text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i := range expected {
				if got[i] != expected[i] {
					t.Errorf("element %d: expected %v, got %v", i, expected[i], got[i])
				}
			}
		})
	}
}

func TestParsersAgree(t *testing.T) {
	// Both parser variants must accept the same payloads with the same
	// results for realistic embedding sizes.
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < 512; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(math.Sin(float64(i)), 'g', -1, 64))
	}
	sb.WriteByte(']')
	text := sb.String()

	defaultVec, err := NewDefaultParser().Parse(text)
	if err != nil {
		t.Fatalf("default parser failed: %v", err)
	}
	fastVec, err := NewFastParser().Parse(text)
	if err != nil {
		t.Fatalf("fast parser failed: %v", err)
	}

	if len(defaultVec) != len(fastVec) {
		t.Fatalf("length mismatch: %d vs %d", len(defaultVec), len(fastVec))
	}
	for i := range defaultVec {
		if defaultVec[i] != fastVec[i] {
			t.Errorf("element %d: default %v, fast %v", i, defaultVec[i], fastVec[i])
		}
	}
}

func TestFastParserReuse(t *testing.T) {
	// Repeated parses reuse pooled buffers; results must stay independent.
	p := NewFastParser()

	first, err := p.Parse("[1,2,3]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Parse("[4,5,6,7]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first[0] != 1 || first[1] != 2 || first[2] != 3 {
		t.Errorf("first result mutated: %v", first)
	}
	if len(second) != 4 || second[0] != 4 {
		t.Errorf("unexpected second result: %v", second)
	}
}
