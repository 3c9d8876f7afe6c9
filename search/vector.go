package search

import (
	"fmt"
	"math"

	"github.com/poiesic/coursefind/core"
)

// CosineSimilarity computes (a·b) / (‖a‖·‖b‖) for two vectors of equal
// length. If either vector has zero norm the similarity is 0, not an error:
// a degenerate embedding should rank last rather than crash the query.
//
// Vectors of unequal length indicate the embedder was used inconsistently;
// that is reported as a dimension mismatch, never truncated or padded.
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", core.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}
