package config

// Config is the root configuration for the context assembly core.
// It is loaded once at process start and treated as read-only afterwards.
type Config struct {
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	VectorDB  VectorDBConfig  `json:"vectordb" yaml:"vectordb"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Query     QueryConfig     `json:"query" yaml:"query"`
	Assembler AssemblerConfig `json:"assembler" yaml:"assembler"`
	// Pipeline holds orchestrator-level options. If nil, defaults apply.
	Pipeline *PipelineConfig `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
}

// EmbeddingConfig defines configuration for the embedding provider.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: openai, dashscope
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	// BatchSize caps how many texts are embedded concurrently per batch
	// on the ingestion path.
	BatchSize int `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`
	// BatchDelayMs is the pause between consecutive batches, to respect
	// upstream rate limits.
	BatchDelayMs int `json:"batch_delay_ms,omitempty" yaml:"batch_delay_ms,omitempty"`
}

// VectorDBConfig defines configuration for the vector similarity store.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: milvus
	Host       string `json:"host,omitempty" yaml:"host,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
}

// LLMConfig defines configuration for the downstream text generator.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: openai, dashscope, qwen
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// QueryConfig holds the normalizer's data tables. Empty fields fall back
// to the compiled defaults so a zero QueryConfig is fully usable.
type QueryConfig struct {
	// StopWords replaces the default stop-word set when non-empty.
	StopWords []string `json:"stop_words,omitempty" yaml:"stop_words,omitempty"`
	// Synonyms maps a term to its expansion candidates; only the first
	// synonym is appended during query expansion.
	Synonyms map[string][]string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	// IntentRules replaces the default intent rule table when non-empty.
	// Rules are evaluated in order; the highest-confidence match wins.
	IntentRules []IntentRule `json:"intent_rules,omitempty" yaml:"intent_rules,omitempty"`
}

// IntentRule is one entry of the data-driven intent classifier.
type IntentRule struct {
	Intent     string  `json:"intent" yaml:"intent"`
	Pattern    string  `json:"pattern" yaml:"pattern"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	// Keywords is a short list appended to the query by the
	// intent-contextualized variation, e.g. "cost price fee rate".
	Keywords string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// AssemblerConfig controls context assembly budgets and filters.
type AssemblerConfig struct {
	// MinScore drops candidates below this similarity score. Default 0.5.
	MinScore float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	// MaxChunks caps how many passages a bundle may include. Default 10.
	MaxChunks int `json:"max_chunks,omitempty" yaml:"max_chunks,omitempty"`
	// MaxTokens is the token budget; the character budget is MaxTokens*4.
	// Default 4000.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	// SimilarityThreshold is the Jaccard word-set similarity above which
	// a candidate counts as a near-duplicate. Default 0.85.
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" yaml:"similarity_threshold,omitempty"`
	// Header is prepended to the assembled content and counts against
	// the character budget. Set NoHeader to omit it entirely.
	Header   string `json:"header,omitempty" yaml:"header,omitempty"`
	NoHeader bool   `json:"no_header,omitempty" yaml:"no_header,omitempty"`
}

// PipelineConfig defines orchestrator-level options.
type PipelineConfig struct {
	// MaxVariations caps query variations per request (raw query included).
	MaxVariations int `json:"max_variations,omitempty" yaml:"max_variations,omitempty"`
	// TopK per retrieval call.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	// RetrievalTimeoutMs bounds each retriever call.
	RetrievalTimeoutMs int `json:"retrieval_timeout_ms,omitempty" yaml:"retrieval_timeout_ms,omitempty"`
	// Fusion selects how per-variation result lists merge: "max" keeps
	// the best similarity score per document (default), "rrf" uses
	// reciprocal rank fusion.
	Fusion string `json:"fusion,omitempty" yaml:"fusion,omitempty"`
	// RRFK is the rank offset for RRF fusion; typical default 60.
	RRFK int `json:"rrf_k,omitempty" yaml:"rrf_k,omitempty"`
	// Retrievers registers additional retrieval backends beside the
	// vector retriever, e.g. a BM25 endpoint.
	Retrievers []RetrieverConfig `json:"retrievers,omitempty" yaml:"retrievers,omitempty"`
	// Cache controls L1 caching of assembled bundles.
	Cache *CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty"`
	// HTTP sets defaults for outbound HTTP calls (BM25, web backends).
	HTTP *HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
	// FallbackResponse is returned when no candidate survives filtering.
	FallbackResponse string `json:"fallback_response,omitempty" yaml:"fallback_response,omitempty"`
}

// RetrieverConfig registers one retrieval backend instance.
// Type examples: "bm25".
type RetrieverConfig struct {
	Type     string            `json:"type" yaml:"type"`
	Provider string            `json:"provider,omitempty" yaml:"provider,omitempty"`
	Params   map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// CacheConfig controls the in-process bundle cache.
type CacheConfig struct {
	Enabled    bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Capacity   int  `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	TTLSeconds int  `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// HTTPClientConfig tunes the shared outbound HTTP client.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
}

// Default knobs.
const (
	DefaultMinScore            = 0.5
	DefaultMaxChunks           = 10
	DefaultMaxTokens           = 4000
	DefaultSimilarityThreshold = 0.85
	DefaultHeader              = "Based on the following information:\n\n"

	DefaultMaxVariations      = 3
	DefaultTopK               = 10
	DefaultRetrievalTimeoutMs = 1500
	DefaultRRFK               = 60
	DefaultBatchSize          = 100
	DefaultBatchDelayMs       = 1000
	DefaultFallbackResponse   = "I could not find relevant information to answer that. Could you rephrase the question or provide more detail?"
)

// Normalize fills unset assembler fields with defaults and returns the
// effective values. The receiver is not modified.
func (a AssemblerConfig) Normalize() AssemblerConfig {
	if a.MinScore <= 0 {
		a.MinScore = DefaultMinScore
	}
	if a.MaxChunks <= 0 {
		a.MaxChunks = DefaultMaxChunks
	}
	if a.MaxTokens <= 0 {
		a.MaxTokens = DefaultMaxTokens
	}
	if a.SimilarityThreshold <= 0 {
		a.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if a.NoHeader {
		a.Header = ""
	} else if a.Header == "" {
		a.Header = DefaultHeader
	}
	return a
}

// CharBudget is the assembled-content character ceiling.
func (a AssemblerConfig) CharBudget() int {
	n := a.MaxTokens
	if n <= 0 {
		n = DefaultMaxTokens
	}
	return n * 4
}

// Normalize fills unset pipeline fields with defaults. A nil receiver
// yields the full default pipeline.
func (p *PipelineConfig) Normalize() PipelineConfig {
	var out PipelineConfig
	if p != nil {
		out = *p
	}
	if out.MaxVariations <= 0 {
		out.MaxVariations = DefaultMaxVariations
	}
	if out.TopK <= 0 {
		out.TopK = DefaultTopK
	}
	if out.RetrievalTimeoutMs <= 0 {
		out.RetrievalTimeoutMs = DefaultRetrievalTimeoutMs
	}
	if out.Fusion == "" {
		out.Fusion = "max"
	}
	if out.RRFK <= 0 {
		out.RRFK = DefaultRRFK
	}
	if out.FallbackResponse == "" {
		out.FallbackResponse = DefaultFallbackResponse
	}
	return out
}
