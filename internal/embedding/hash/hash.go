package hash

import (
	"hash/fnv"
	"math"
	"strings"
)

// Embedder is a deterministic offline embedder that hashes lowercased words
// into a fixed number of buckets and L2-normalizes the result. It needs no
// network or model and doubles as a test stand-in for a real encoder.
type Embedder struct {
	dim int
}

func NewEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = 384
	}
	return &Embedder{dim: dimension}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "hash" }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dim }

// Encode maps text to a unit-length word-bucket histogram.
func (e *Embedder) Encode(text string) ([]float64, error) {
	vec := make([]float64, e.dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[int(h.Sum32())%e.dim]++
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		inv := 1 / math.Sqrt(norm)
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// EncodeBatch embeds each text independently, preserving input order.
func (e *Embedder) EncodeBatch(texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := e.Encode(t)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}
