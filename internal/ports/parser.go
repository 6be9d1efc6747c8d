package ports

// Parser defines the interface for decoding a serialized embedding into a
// numeric vector.
type Parser interface {
	Parse(text string) ([]float64, error)
}
