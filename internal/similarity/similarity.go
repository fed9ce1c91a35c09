// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity computes pairwise content similarity over a corpus of
// text blobs. Each strategy (lexical TF-IDF, sentence embeddings) implements
// Backend; the selector only relies on the returned matrix being square,
// symmetric, bounded, and carrying 1 on the diagonal.
package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/pdiddy/scholar-select/pkg/types"
)

// Backend computes a similarity matrix for a corpus. Implementations must
// be deterministic for the same input so that selections are reproducible.
type Backend interface {
	Name() string
	Matrix(ctx context.Context, docs []string) ([][]float64, error)
}

// New returns the backend selected by cfg.Backend. apiKey is used by the
// openai backend only. An empty backend selects tfidf.
func New(cfg types.SimilarityConfig, apiKey string) (Backend, error) {
	switch cfg.Backend {
	case types.SimilarityTFIDF, "":
		return NewTFIDF(), nil
	case types.SimilarityFastEmbed:
		emb, err := NewFastEmbed(cfg.Model, cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		return &Embedding{Embedder: emb, Label: "fastembed"}, nil
	case types.SimilarityOllama:
		emb, err := NewOllamaEmbedder(cfg.Model, cfg.ServerURL)
		if err != nil {
			return nil, err
		}
		return &Embedding{Embedder: emb, Label: "ollama"}, nil
	case types.SimilarityOpenAI:
		emb, err := NewOpenAIEmbedder(cfg.Model, apiKey)
		if err != nil {
			return nil, err
		}
		return &Embedding{Embedder: emb, Label: "openai"}, nil
	default:
		return nil, fmt.Errorf("unknown similarity backend %q: use tfidf, fastembed, ollama, or openai", cfg.Backend)
	}
}

// newMatrix allocates an n×n matrix with 1 on the diagonal.
func newMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

// clamp bounds v to [-1, 1], absorbing floating-point overshoot.
func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
