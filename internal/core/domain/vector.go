package domain

import "math"

// EmbeddingDimensions is the fixed corpus-wide embedding length.
// Raw vectors from the embedding provider are truncated to this size at
// ingestion time; it is the single point where dimensionality is fixed.
const EmbeddingDimensions = 768

// Truncate returns at most the first EmbeddingDimensions components of v.
// Components beyond the limit are discarded, not averaged or re-projected.
func Truncate(v []float32) []float32 {
	if len(v) <= EmbeddingDimensions {
		return v
	}
	return v[:EmbeddingDimensions]
}

// Normalize scales v to unit L2 norm and returns it.
// A zero vector is returned unchanged: it will never exceed a positive
// similarity threshold, which makes it effectively unretrievable rather
// than an error.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Cosine computes the cosine similarity between two vectors of equal length:
// dot(a,b) / (|a| * |b|), in [-1, 1]. If either norm is zero the result is
// exactly 0. Vectors of different lengths are a fatal input error.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
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

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
