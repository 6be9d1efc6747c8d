package domain

// Default configuration values shared across the library.
const (
	// DefaultThreshold is the similarity cutoff used when no explicit
	// threshold is configured or supplied per call.
	DefaultThreshold = 0.6

	// DefaultDimension is the embedding dimension produced by the default
	// inference pipeline. The comparison engine itself only requires that
	// both vectors have equal length.
	DefaultDimension = 512
)

// Result holds the outcome of an embedding comparison.
type Result struct {
	// Name of the metric.
	Name string
	// Match indicates whether the similarity met or exceeded the threshold.
	Match bool
	// Similarity is the cosine similarity clamped into [0, 1].
	Similarity float64
	// EuclideanDistance is the L2 distance between the two embeddings.
	EuclideanDistance float64
	// ManhattanDistance is the L1 distance between the two embeddings.
	ManhattanDistance float64
	// Threshold is the cutoff that was applied for this comparison.
	Threshold float64
	// Confidence expresses how decisively the comparison fell on one side
	// of the threshold, in [0, 1].
	Confidence float64
	// Details holds additional diagnostic information.
	Details map[string]interface{}
}
