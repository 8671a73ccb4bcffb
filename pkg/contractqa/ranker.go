package contractqa

import (
	"fmt"
	"math"
)

// Rank returns the index of the candidate with the highest cosine similarity to
// query, together with that score. Ties resolve to the lowest index.
func Rank(query []float32, candidates [][]float32) (int, float64, error) {
	if len(candidates) == 0 {
		return 0, 0, ErrEmptyCorpus
	}

	best, bestScore := 0, math.Inf(-1)
	for i, c := range candidates {
		score, err := CosineSimilarity(query, c)
		if err != nil {
			return 0, 0, fmt.Errorf("candidate %d: %w", i, err)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore, nil
}

// CosineSimilarity of a and b, which must have the same length. A zero-norm
// vector scores 0 against anything.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
