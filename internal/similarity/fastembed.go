// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	fastembed "github.com/anush008/fastembed-go"
)

// DefaultFastEmbedModel is the sentence-transformers model used when none
// is configured.
const DefaultFastEmbedModel = "sentence-transformers/all-MiniLM-L6-v2"

const fastEmbedBatchSize = 64

var fastEmbedModels = map[string]fastembed.EmbeddingModel{
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
}

// FastEmbed embeds documents with a local ONNX model. Model files are
// downloaded to the cache directory on first use.
type FastEmbed struct {
	mu    sync.Mutex
	model *fastembed.FlagEmbedding
}

// NewFastEmbed loads the named model. An empty name selects
// DefaultFastEmbedModel; an empty cacheDir uses ./local_cache.
func NewFastEmbed(model, cacheDir string) (*FastEmbed, error) {
	if model == "" {
		model = DefaultFastEmbedModel
	}
	m, ok := fastEmbedModels[model]
	if !ok {
		return nil, fmt.Errorf("unsupported fastembed model %q", model)
	}
	if cacheDir == "" {
		cacheDir = filepath.Join(".", "local_cache")
	}

	showProgress := false
	flag, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                m,
		CacheDir:             cacheDir,
		MaxLength:            512,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing fastembed: %w", err)
	}
	return &FastEmbed{model: flag}, nil
}

// EmbedDocuments embeds texts without a passage prefix, matching how
// sentence-transformers encodes them.
func (f *FastEmbed) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.model.Embed(texts, fastEmbedBatchSize)
}

// Close releases the ONNX session.
func (f *FastEmbed) Close() error {
	return f.model.Destroy()
}
