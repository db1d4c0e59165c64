package embedder

import "context"

// Embedder turns a batch of texts into fixed-dimension vectors. The
// returned slice has the same length and order as the input. All vectors
// produced by one implementation share a single dimensionality.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
