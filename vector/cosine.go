package vector

import (
	"fmt"
	"math"
)

// CosineSimilarity computes dot(a,b) / (||a|| * ||b||).
// Returns 0 when either norm is zero. Panics on a length mismatch: vectors of
// different dimensionality in one collection are a configuration error, not a
// search-time condition.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vector: cosine similarity on mismatched lengths %d and %d", len(a), len(b)))
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

// Normalize scales a vector to unit length. Returns a new vector; a zero
// vector normalizes to a zero vector.
func Normalize(v []float32) []float32 {
	result := make([]float32, len(v))

	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return result
	}

	magnitude := float32(math.Sqrt(sumSquares))
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}
