// Package embed provides the sentence-embedding capability used for
// replacement-style classification and scene-type labeling. It is a
// capability, not a hard dependency: a nil Embedder is a valid degraded
// state and callers fall back to their non-semantic defaults
package embed

import (
	"context"
	"math"
)

// Embedder generates fixed-dimension embeddings for text
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Cosine computes cosine similarity between two float32 vectors.
// Mismatched or empty vectors read as 0
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MaxSimilarity returns the highest cosine similarity between v and any
// candidate vector
func MaxSimilarity(v []float32, candidates [][]float32) float64 {
	best := 0.0
	for _, c := range candidates {
		if s := Cosine(v, c); s > best {
			best = s
		}
	}
	return best
}

// Centroid averages a set of equal-length vectors; nil when the set is empty
func Centroid(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float32, len(vecs[0]))
	for _, v := range vecs {
		for i := range out {
			if i < len(v) {
				out[i] += v[i]
			}
		}
	}
	n := float32(len(vecs))
	for i := range out {
		out[i] /= n
	}
	return out
}
