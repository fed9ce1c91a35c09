// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
)

// Embedder turns documents into dense vectors. The langchaingo embedders
// satisfy it directly; FastEmbed adapts the local ONNX runtime to it.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrEmbeddingCount is returned when an embedder yields a different number
// of vectors than documents submitted.
var ErrEmbeddingCount = errors.New("embedder returned wrong number of vectors")

// Embedding is a semantic backend: documents are embedded in one batch and
// similarity is the cosine of the vectors, in [-1, 1].
type Embedding struct {
	Embedder Embedder

	// Label names the backend in logs (e.g. "fastembed").
	Label string
}

// Name returns the backend identifier.
func (e *Embedding) Name() string {
	if e.Label == "" {
		return "embedding"
	}
	return e.Label
}

// Close releases the embedder when it holds resources, such as the
// fastembed ONNX session.
func (e *Embedding) Close() error {
	if c, ok := e.Embedder.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Matrix embeds docs and returns their pairwise cosine similarity. Embedder
// failures are returned unchanged in the chain so callers can abort.
func (e *Embedding) Matrix(ctx context.Context, docs []string) ([][]float64, error) {
	if len(docs) == 0 {
		return [][]float64{}, nil
	}

	vectors, err := e.Embedder.EmbedDocuments(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("embedding %d documents with %s: %w", len(docs), e.Name(), err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w: got %d for %d documents", ErrEmbeddingCount, len(vectors), len(docs))
	}

	normalized := make([][]float64, len(vectors))
	for i, v := range vectors {
		normalized[i] = normalize(v)
	}

	m := newMatrix(len(docs))
	for i := range normalized {
		for j := i + 1; j < len(normalized); j++ {
			if len(normalized[i]) != len(normalized[j]) {
				return nil, fmt.Errorf("embedding dimensions differ: %d vs %d", len(normalized[i]), len(normalized[j]))
			}
			sim := clamp(dot(normalized[i], normalized[j]))
			m[i][j] = sim
			m[j][i] = sim
		}
	}
	return m, nil
}

// normalize returns v scaled to unit length. A zero vector stays zero.
func normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for i, x := range v {
		out[i] = float64(x)
		norm += out[i] * out[i]
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
