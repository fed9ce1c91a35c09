// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"context"
	"math"
)

// TFIDF is a lexical backend: documents become L2-normalized TF-IDF term
// vectors and similarity is their cosine, which lies in [0, 1].
type TFIDF struct{}

// NewTFIDF returns a TF-IDF backend.
func NewTFIDF() *TFIDF { return &TFIDF{} }

// Name returns the backend identifier.
func (t *TFIDF) Name() string { return "tfidf" }

// Matrix computes pairwise cosine similarity of TF-IDF vectors. The idf is
// smoothed as ln((1+n)/(1+df)) + 1 so terms shared by every document still
// carry weight. Documents without any tokens are similar only to themselves.
func (t *TFIDF) Matrix(ctx context.Context, docs []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(docs)
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = termCounts(Tokenize(doc))
		for term := range counts[i] {
			df[term]++
		}
	}

	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log(float64(1+n)/float64(1+d)) + 1
	}

	vectors := make([]map[string]float64, n)
	for i, c := range counts {
		vectors[i] = weigh(c, idf)
	}

	m := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := clamp(sparseDot(vectors[i], vectors[j]))
			m[i][j] = sim
			m[j][i] = sim
		}
	}
	return m, nil
}

// weigh builds the L2-normalized tf·idf vector for one document.
func weigh(counts map[string]int, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(counts))
	var norm float64
	for term, tf := range counts {
		w := float64(tf) * idf[term]
		vec[term] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

func sparseDot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}
