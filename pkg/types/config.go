// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-select/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SelectionConfig holds the numeric parameters of the paper selector.
// Alpha and Beta are not normalized: they conventionally sum to 1 but the
// selector uses them as given.
type SelectionConfig struct {
	// NPapers is the maximum number of papers selected per researcher (default 10).
	NPapers int `json:"n_papers" yaml:"n_papers" mapstructure:"n_papers"`

	// Alpha weights the recency score (default 0.6).
	Alpha float64 `json:"alpha" yaml:"alpha" mapstructure:"alpha"`

	// Beta weights the citation score (default 0.4).
	Beta float64 `json:"beta" yaml:"beta" mapstructure:"beta"`

	// PenaltyWeight scales similarity before the penalty sigmoid (default 1.0).
	// Larger values enforce stricter diversity.
	PenaltyWeight float64 `json:"penalty_weight" yaml:"penalty_weight" mapstructure:"penalty_weight"`

	// RecencyWindowYears is how many years back a paper may be published
	// and still be a candidate (default 5).
	RecencyWindowYears int `json:"recency_window_years" yaml:"recency_window_years" mapstructure:"recency_window_years"`

	// NameThreshold is the fuzzy name-match threshold on a 0-100 scale (default 80).
	NameThreshold int `json:"name_threshold" yaml:"name_threshold" mapstructure:"name_threshold"`
}

// DefaultSelectionConfig returns the selector defaults.
func DefaultSelectionConfig() SelectionConfig {
	return SelectionConfig{
		NPapers:            10,
		Alpha:              0.6,
		Beta:               0.4,
		PenaltyWeight:      1.0,
		RecencyWindowYears: 5,
		NameThreshold:      80,
	}
}

// SimilarityBackend identifies the text similarity strategy.
type SimilarityBackend string

const (
	SimilarityTFIDF     SimilarityBackend = "tfidf"
	SimilarityFastEmbed SimilarityBackend = "fastembed"
	SimilarityOllama    SimilarityBackend = "ollama"
	SimilarityOpenAI    SimilarityBackend = "openai"
)

// SimilarityConfig holds settings for the similarity stage.
type SimilarityConfig struct {
	// Backend selects the similarity strategy: tfidf, fastembed, ollama, or openai.
	Backend SimilarityBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the embedding model name. Ignored by tfidf.
	Model string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`

	// CacheDir is where fastembed stores downloaded ONNX models.
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty" mapstructure:"cache_dir"`

	// ServerURL is the Ollama server URL (empty uses the client default).
	ServerURL string `json:"server_url,omitempty" yaml:"server_url,omitempty" mapstructure:"server_url"`
}

// HarvestConfig holds settings for building a paper dump from academic APIs.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the maximum number of works requested per backend (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// SinceYear drops works published before this year (0 = no limit).
	SinceYear int `json:"since_year" yaml:"since_year" mapstructure:"since_year"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`
}

// StoreConfig holds settings for the selection history database.
type StoreConfig struct {
	// Dir is the directory holding scholar.db and exports.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Selection  SelectionConfig  `json:"selection" yaml:"selection" mapstructure:"selection"`
	Similarity SimilarityConfig `json:"similarity" yaml:"similarity" mapstructure:"similarity"`
	Harvest    HarvestConfig    `json:"harvest" yaml:"harvest" mapstructure:"harvest"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
}
