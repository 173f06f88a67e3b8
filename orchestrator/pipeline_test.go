package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidentic/ragcore/config"
	"github.com/evidentic/ragcore/llm"
	"github.com/evidentic/ragcore/retriever"
	"github.com/evidentic/ragcore/schema"
)

type stubRetriever struct {
	typ     string
	results []schema.SearchResult
	err     error

	mu      sync.Mutex
	queries []string
	topKs   []int
}

func (s *stubRetriever) Type() string { return s.typ }

func (s *stubRetriever) Search(_ context.Context, query string, topK int) ([]schema.SearchResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.topKs = append(s.topKs, topK)
	s.mu.Unlock()
	return s.results, s.err
}

func (s *stubRetriever) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

type stubGenerator struct {
	response string
	err      error

	mu         sync.Mutex
	calls      int
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, system, prompt string) (string, *llm.Usage, error) {
	s.mu.Lock()
	s.calls++
	s.lastSystem = system
	s.lastPrompt = prompt
	s.mu.Unlock()
	if s.err != nil {
		return "", nil, s.err
	}
	return s.response, &llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

func doc(id, title, source, content string, score float64) schema.SearchResult {
	return schema.SearchResult{
		Document: schema.Document{ID: id, Title: title, Source: source, Content: content},
		Score:    score,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: &config.PipelineConfig{MaxVariations: 2, TopK: 5},
	}
}

func TestProcessQuerySuccess(t *testing.T) {
	ret := &stubRetriever{typ: "vector", results: []schema.SearchResult{
		doc("d1", "Pricing", "docs", "Plans start at nine dollars monthly for the basic tier.", 0.9),
		doc("d2", "Billing", "kb", "Enterprise quotes come from the sales team directly.", 0.8),
	}}
	gen := &stubGenerator{response: "Plans start at nine dollars."}
	p := NewWithRetrievers(testConfig(), []retriever.Retriever{ret}, gen)

	res := p.ProcessQuery(context.Background(), "What is your pricing?", "tenant-a", Options{})

	require.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Equal(t, "Plans start at nine dollars.", res.Response)
	assert.Len(t, res.Sources, 2)
	assert.Equal(t, schema.IntentPricing, res.Metadata.Intent)
	assert.Equal(t, 0.9, res.Metadata.IntentConfidence)
	assert.Equal(t, 2, res.Metadata.ChunksUsed)
	assert.Greater(t, res.Metadata.Confidence, 0.0)

	assert.Contains(t, gen.lastPrompt, "What is your pricing?")
	assert.Contains(t, gen.lastPrompt, "nine dollars monthly")
	assert.Equal(t, llm.DefaultSystemInstructions, gen.lastSystem)
}

func TestProcessQueryFallbackOnEmptyCandidates(t *testing.T) {
	ret := &stubRetriever{typ: "vector"}
	gen := &stubGenerator{response: "unused"}
	p := NewWithRetrievers(testConfig(), []retriever.Retriever{ret}, gen)

	res := p.ProcessQuery(context.Background(), "anything at all", "", Options{})

	require.True(t, res.Success, "empty retrieval is not a failure")
	assert.Equal(t, config.DefaultFallbackResponse, res.Response)
	assert.Empty(t, res.Sources)
	assert.Zero(t, res.Metadata.ChunksUsed)
	assert.Equal(t, 0, gen.calls, "generator must not run without context")
}

func TestProcessQueryAllRetrieversFail(t *testing.T) {
	ret := &stubRetriever{typ: "vector", err: errors.New("connection refused")}
	p := NewWithRetrievers(testConfig(), []retriever.Retriever{ret}, &stubGenerator{})

	res := p.ProcessQuery(context.Background(), "what is your pricing?", "", Options{})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "vector retrieval")
	assert.NotNil(t, res.Sources)
	assert.Empty(t, res.Sources)
}

func TestProcessQueryToleratesPartialRetrieverFailure(t *testing.T) {
	good := &stubRetriever{typ: "vector", results: []schema.SearchResult{
		doc("d1", "t", "docs", "Refunds are processed within five business days.", 0.85),
	}}
	bad := &stubRetriever{typ: "bm25", err: errors.New("search backend down")}
	p := NewWithRetrievers(testConfig(), []retriever.Retriever{good, bad}, &stubGenerator{response: "ok"})

	res := p.ProcessQuery(context.Background(), "refund policy", "", Options{})

	require.True(t, res.Success)
	assert.Equal(t, "ok", res.Response)
	assert.Len(t, res.Sources, 1)
}

func TestProcessQueryGeneratorFailure(t *testing.T) {
	ret := &stubRetriever{typ: "vector", results: []schema.SearchResult{
		doc("d1", "t", "docs", "Some relevant passage body for the answer.", 0.9),
	}}
	gen := &stubGenerator{err: errors.New("model overloaded")}
	p := NewWithRetrievers(testConfig(), []retriever.Retriever{ret}, gen)

	res := p.ProcessQuery(context.Background(), "what is your pricing?", "", Options{})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "generate response")
	assert.Contains(t, res.Error, "model overloaded")
}

func TestProcessQueryWithoutGenerator(t *testing.T) {
	ret := &stubRetriever{typ: "vector", results: []schema.SearchResult{
		doc("d1", "t", "docs", "Bundle-only mode returns sources without text.", 0.9),
	}}
	p := NewWithRetrievers(testConfig(), []retriever.Retriever{ret}, nil)

	res := p.ProcessQuery(context.Background(), "what is your pricing?", "", Options{})

	require.True(t, res.Success)
	assert.Empty(t, res.Response)
	assert.Len(t, res.Sources, 1)
}

func TestProcessQueryVariationFanOut(t *testing.T) {
	ret := &stubRetriever{typ: "vector"}
	p := NewWithRetrievers(testConfig(), []retriever.Retriever{ret}, nil)

	p.ProcessQuery(context.Background(), "What is your pricing?", "", Options{MaxVariations: 3})

	require.GreaterOrEqual(t, ret.calls(), 2)
	assert.Equal(t, "What is your pricing?", ret.queries[0], "raw query always queried first")
}

func TestProcessQueryOptionsOverrideTopK(t *testing.T) {
	ret := &stubRetriever{typ: "vector"}
	p := NewWithRetrievers(testConfig(), []retriever.Retriever{ret}, nil)

	p.ProcessQuery(context.Background(), "plain query", "", Options{TopK: 42})

	require.NotEmpty(t, ret.topKs)
	for _, k := range ret.topKs {
		assert.Equal(t, 42, k)
	}
}

func TestProcessQueryCacheHit(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.Cache = &config.CacheConfig{Enabled: true, Capacity: 8, TTLSeconds: 60}

	ret := &stubRetriever{typ: "vector", results: []schema.SearchResult{
		doc("d1", "t", "docs", "Cached passage body used across identical queries.", 0.9),
	}}
	gen := &stubGenerator{response: "answer"}
	p := NewWithRetrievers(cfg, []retriever.Retriever{ret}, gen)

	first := p.ProcessQuery(context.Background(), "what is your pricing?", "tenant-a", Options{})
	require.True(t, first.Success)
	afterFirst := ret.calls()
	require.Greater(t, afterFirst, 0)

	second := p.ProcessQuery(context.Background(), "what is your pricing?", "tenant-a", Options{})
	require.True(t, second.Success)

	assert.Equal(t, afterFirst, ret.calls(), "second query must be served from cache")
	assert.Equal(t, first.Sources, second.Sources)
	assert.Equal(t, first.Metadata.Confidence, second.Metadata.Confidence)
	assert.Equal(t, 2, gen.calls, "generation still runs on cache hits")
}

func TestProcessQueryCachePartitionedByScope(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.Cache = &config.CacheConfig{Enabled: true, Capacity: 8, TTLSeconds: 60}

	ret := &stubRetriever{typ: "vector", results: []schema.SearchResult{
		doc("d1", "t", "docs", "Scope-partitioned cache entry body.", 0.9),
	}}
	p := NewWithRetrievers(cfg, []retriever.Retriever{ret}, nil)

	p.ProcessQuery(context.Background(), "same question", "tenant-a", Options{})
	afterFirst := ret.calls()

	p.ProcessQuery(context.Background(), "same question", "tenant-b", Options{})
	assert.Greater(t, ret.calls(), afterFirst, "different scope must not share cache entries")
}

func TestCacheKeyDeterministic(t *testing.T) {
	p := NewWithRetrievers(testConfig(), nil, nil)
	nq := schema.NormalizedQuery{Cleaned: "what is your pricing?"}

	assert.Equal(t, p.cacheKey(nq, "a"), p.cacheKey(nq, "a"))
	assert.NotEqual(t, p.cacheKey(nq, "a"), p.cacheKey(nq, "b"))
}
