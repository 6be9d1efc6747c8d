package parser

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/baditaflorin/go_embedding_similarity/internal/core/domain"
	"github.com/baditaflorin/go_embedding_similarity/internal/pool"
	"github.com/baditaflorin/go_embedding_similarity/internal/ports"
)

// FastParser is an allocation-conscious parser variant that scans the flat
// "[n, n, ...]" array shape directly instead of going through a JSON decoder.
// Input bytes are compacted into a pooled buffer before tokenizing, so
// repeated calls reuse memory.
type FastParser struct {
	bytePool *pool.BufferPool
}

// NewFastParser creates a new fast parser.
func NewFastParser() ports.Parser {
	return &FastParser{
		bytePool: pool.NewBufferPool(8192), // 8K bytes initial capacity
	}
}

// Parse decodes text into an embedding. Semantics match DefaultParser: only
// a non-empty JSON array of finite numbers is accepted, and the decoded
// values are returned unchanged.
func (p *FastParser) Parse(text string) ([]float64, error) {
	bufPtr := p.bytePool.Get()
	buf := *bufPtr
	defer func() {
		*bufPtr = buf
		p.bytePool.Put(bufPtr)
	}()

	// Compact whitespace so tokenizing can split on commas alone.
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case ' ', '\t', '\n', '\r':
		default:
			buf = append(buf, c)
		}
	}

	if len(buf) < 2 || buf[0] != '[' || buf[len(buf)-1] != ']' {
		return nil, fmt.Errorf("parser: not a JSON array: %w", domain.ErrInvalidFormat)
	}
	inner := buf[1 : len(buf)-1]
	if len(inner) == 0 {
		return nil, fmt.Errorf("parser: empty embedding: %w", domain.ErrInvalidFormat)
	}

	vec := make([]float64, 0, bytes.Count(inner, []byte{','})+1)
	start := 0
	for i := 0; i <= len(inner); i++ {
		if i != len(inner) && inner[i] != ',' {
			continue
		}
		tok := inner[start:i]
		start = i + 1

		if !isNumericToken(tok) {
			return nil, fmt.Errorf("parser: non-numeric element %q: %w", tok, domain.ErrInvalidFormat)
		}
		v, err := strconv.ParseFloat(string(tok), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("parser: non-finite element %q: %w", tok, domain.ErrInvalidFormat)
		}
		vec = append(vec, v)
	}
	return vec, nil
}

// isNumericToken rejects empty tokens and the forms strconv accepts but JSON
// does not (NaN, Inf, hex floats, underscores).
func isNumericToken(tok []byte) bool {
	if len(tok) == 0 {
		return false
	}
	for _, c := range tok {
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return true
}
