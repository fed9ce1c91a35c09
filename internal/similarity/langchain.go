// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// DefaultOllamaModel produces 384-dimensional MiniLM vectors.
	DefaultOllamaModel = "all-minilm:l6-v2"

	// DefaultOpenAIModel is the OpenAI embedding model used when none is configured.
	DefaultOpenAIModel = "text-embedding-3-small"
)

// NewOllamaEmbedder returns an embedder backed by an Ollama server.
// An empty serverURL uses OLLAMA_HOST or the client default.
func NewOllamaEmbedder(model, serverURL string) (Embedder, error) {
	if model == "" {
		model = DefaultOllamaModel
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	emb, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating ollama embedder: %w", err)
	}
	return emb, nil
}

// NewOpenAIEmbedder returns an embedder backed by the OpenAI embeddings API.
func NewOpenAIEmbedder(model, apiKey string) (Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai similarity backend requires an API key (openai-api-key secret or OPENAI_API_KEY)")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	emb, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating openai embedder: %w", err)
	}
	return emb, nil
}
