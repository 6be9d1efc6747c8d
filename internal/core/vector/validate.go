package vector

import "math"

// IsValid reports whether both embeddings are well formed: non-nil, non-empty
// and composed entirely of finite values. It never errors; callers that need
// a hard failure wrap this check themselves.
func IsValid(a, b []float64) bool {
	return IsWellFormed(a) && IsWellFormed(b)
}

// IsWellFormed reports whether a single embedding is non-empty and contains
// only finite values.
func IsWellFormed(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
