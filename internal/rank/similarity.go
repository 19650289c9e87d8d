package rank

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1. Mismatched lengths, empty vectors and
// zero-magnitude vectors yield 0 instead of NaN.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// finite maps NaN and ±Inf to 0 so a bad signal cannot poison the sort.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
