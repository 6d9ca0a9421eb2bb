package match

import (
	"context"
	"math"
)

// Embedder produces one vector per input text. Implementations are expected
// to be process-wide and safe for reuse across every matcher call.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// cosine returns the cosine similarity of two vectors, 0 when either is
// empty or zero-length.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
