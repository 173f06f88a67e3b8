// Package orchestrator wires the query-processing pipeline: normalize,
// retrieve, fuse, assemble, generate. Collaborator failures never
// propagate past ProcessQuery; callers always receive a structured
// result.
package orchestrator

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evidentic/ragcore/assemble"
	"github.com/evidentic/ragcore/cache"
	"github.com/evidentic/ragcore/common/httpx"
	"github.com/evidentic/ragcore/common/logger"
	"github.com/evidentic/ragcore/config"
	"github.com/evidentic/ragcore/embedding"
	"github.com/evidentic/ragcore/fusion"
	"github.com/evidentic/ragcore/llm"
	"github.com/evidentic/ragcore/metrics"
	"github.com/evidentic/ragcore/normalize"
	"github.com/evidentic/ragcore/retriever"
	"github.com/evidentic/ragcore/schema"
	"github.com/evidentic/ragcore/vectordb"
)

// Options tunes a single ProcessQuery invocation. Zero values fall back
// to the pipeline configuration.
type Options struct {
	TopK               int
	MaxVariations      int
	SystemInstructions string
}

// Metadata carries per-query diagnostics on a Result.
type Metadata struct {
	Intent           schema.Intent `json:"intent"`
	IntentConfidence float64       `json:"intent_confidence"`
	Confidence       float64       `json:"confidence"`
	ChunksUsed       int           `json:"chunks_used"`
	DurationMs       int64         `json:"duration_ms"`
}

// Result is the structured outcome of one query. Success is false only
// for collaborator failures; an empty candidate pool is answered with
// the configured fallback response and Success true.
type Result struct {
	Success  bool               `json:"success"`
	Response string             `json:"response,omitempty"`
	Sources  []schema.SourceRef `json:"sources"`
	Metadata Metadata           `json:"metadata"`
	Error    string             `json:"error,omitempty"`
}

// Pipeline executes the retrieval-augmented context assembly flow.
// All state is request-local except the read-only configuration and the
// optional bundle cache, so a single Pipeline serves concurrent
// requests without locking.
type Pipeline struct {
	pcfg       config.PipelineConfig
	normalizer *normalize.Normalizer
	retrievers []retriever.Retriever
	assembler  *assemble.Assembler
	generator  llm.Provider
	fuser      fusion.Strategy
	bundles    cache.Bundles
	cacheTTL   time.Duration
	store      vectordb.Provider
}

// New wires a Pipeline from configuration, constructing the embedding,
// vector store and generation providers. The generator is optional: an
// empty LLM provider yields bundles without generated text.
func New(cfg *config.Config) (*Pipeline, error) {
	embedder, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider: %w", err)
	}

	store, err := vectordb.NewProvider(&cfg.VectorDB)
	if err != nil {
		return nil, fmt.Errorf("create vector store provider: %w", err)
	}

	var generator llm.Provider
	if cfg.LLM.Provider != "" {
		generator, err = llm.NewProvider(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("create llm provider: %w", err)
		}
	}

	pcfg := cfg.Pipeline.Normalize()
	retrievers := []retriever.Retriever{
		&retriever.VectorRetriever{Embed: embedder, Store: store, TopK: pcfg.TopK, Threshold: 0},
	}
	for _, rc := range pcfg.Retrievers {
		switch rc.Type {
		case "bm25":
			bm := &retriever.BM25Retriever{
				Endpoint: rc.Params["endpoint"],
				Index:    rc.Params["index"],
				Client:   httpx.NewFromConfig(pcfg.HTTP),
			}
			if tk := rc.Params["top_k"]; tk != "" {
				if n, err := strconv.Atoi(tk); err == nil {
					bm.MaxTopK = n
				}
			}
			retrievers = append(retrievers, bm)
		default:
			logger.Warnf("orchestrator: unknown retriever type %q, skipping", rc.Type)
		}
	}

	p := NewWithRetrievers(cfg, retrievers, generator)
	p.store = store
	return p, nil
}

// NewWithRetrievers wires a Pipeline around caller-supplied retrieval
// and generation collaborators.
func NewWithRetrievers(cfg *config.Config, retrievers []retriever.Retriever, generator llm.Provider) *Pipeline {
	pcfg := cfg.Pipeline.Normalize()

	p := &Pipeline{
		pcfg:       pcfg,
		normalizer: normalize.New(cfg.Query),
		retrievers: retrievers,
		assembler:  assemble.New(cfg.Assembler),
		generator:  generator,
		fuser:      fusion.NewStrategy(pcfg.Fusion, pcfg.RRFK),
	}

	if cc := pcfg.Cache; cc != nil && cc.Enabled {
		ttl := time.Duration(cc.TTLSeconds) * time.Second
		p.bundles = cache.NewBundles(cc.Capacity, ttl)
		p.cacheTTL = ttl
	}
	return p
}

// Close releases backend connections.
func (p *Pipeline) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// ProcessQuery runs the full pipeline for one raw query. scope
// identifies the caller's source corpus; it partitions the cache and is
// reported in diagnostics.
func (p *Pipeline) ProcessQuery(ctx context.Context, rawQuery string, scope string, opts Options) Result {
	start := time.Now()

	record := metrics.NewQueryRecord()
	record.QueryID = uuid.NewString()
	record.Query = rawQuery
	record.Scope = scope

	nq := p.normalizer.Normalize(rawQuery)
	record.Intent = string(nq.Intent)
	record.IntentConfidence = nq.IntentConfidence
	record.Complexity = nq.Complexity
	metrics.IncIntent(string(nq.Intent))

	maxVariations := opts.MaxVariations
	if maxVariations <= 0 {
		maxVariations = p.pcfg.MaxVariations
	}
	variations := p.normalizer.Variations(rawQuery, maxVariations)
	record.VariationCount = len(variations)

	bundle, hit := p.cachedBundle(nq, scope)
	if hit {
		record.CacheHit = true
		metrics.IncCache(true)
	} else {
		metrics.IncCache(false)

		lists, retrieveErr := p.retrieve(ctx, variations, opts, record)
		if len(lists) == 0 && retrieveErr != nil {
			return p.fail(record, start, nq, retrieveErr)
		}

		fused := p.fuser.Fuse(lists)
		record.FusionMethod = p.fuser.Name()
		record.FusedCount = len(fused)
		record.TotalRetrieved = totalResults(lists)

		bundle = p.assembler.Assemble(fused)
		if p.bundles != nil && bundle.ChunksUsed > 0 {
			p.bundles.Set(p.cacheKey(nq, scope), bundle, p.cacheTTL)
		}
	}

	record.ChunksUsed = bundle.ChunksUsed
	record.Confidence = bundle.Confidence
	record.TotalChars = bundle.TotalChars

	response, err := p.generate(ctx, bundle, rawQuery, opts)
	if err != nil {
		return p.fail(record, start, nq, err)
	}

	duration := time.Since(start)
	record.TotalLatencyMs = duration.Milliseconds()
	record.Success = true
	record.LogJSON()
	metrics.ObservePipeline(start, true)

	return Result{
		Success:  true,
		Response: response,
		Sources:  bundle.Sources,
		Metadata: Metadata{
			Intent:           nq.Intent,
			IntentConfidence: nq.IntentConfidence,
			Confidence:       bundle.Confidence,
			ChunksUsed:       bundle.ChunksUsed,
			DurationMs:       duration.Milliseconds(),
		},
	}
}

// retrieve fans out every query variation to every retriever, each call
// bounded by the configured timeout. Individual failures are recorded
// and tolerated; the returned error is the last one seen and only
// matters when nothing was retrieved at all.
func (p *Pipeline) retrieve(ctx context.Context, variations []string, opts Options, record *metrics.QueryRecord) ([][]schema.SearchResult, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = p.pcfg.TopK
	}
	perCall := time.Duration(p.pcfg.RetrievalTimeoutMs) * time.Millisecond

	type callResult struct {
		typ     string
		results []schema.SearchResult
		latency time.Duration
		err     error
	}

	lists := make([][]schema.SearchResult, 0, len(variations)*len(p.retrievers))
	var lastErr error

	for _, q := range variations {
		qctx, cancel := context.WithTimeout(ctx, perCall)

		var wg sync.WaitGroup
		resCh := make(chan callResult, len(p.retrievers))
		for _, r := range p.retrievers {
			rr := r
			wg.Add(1)
			go func() {
				defer wg.Done()
				callStart := time.Now()
				res, err := rr.Search(qctx, q, topK)
				resCh <- callResult{typ: rr.Type(), results: res, latency: time.Since(callStart), err: err}
			}()
		}
		wg.Wait()
		close(resCh)
		cancel()

		for cr := range resCh {
			record.AddRetrieverCall(cr.typ, len(cr.results), cr.latency, cr.err)
			metrics.ObserveRetriever(cr.typ, time.Now().Add(-cr.latency), len(cr.results))
			if cr.err != nil {
				logger.Warnf("orchestrator: %s retrieval failed: %v", cr.typ, cr.err)
				lastErr = fmt.Errorf("%s retrieval: %w", cr.typ, cr.err)
				continue
			}
			if len(cr.results) > 0 {
				lists = append(lists, cr.results)
			}
		}
	}

	return lists, lastErr
}

// generate calls the text generator over the assembled bundle. An empty
// bundle short-circuits to the configured fallback response; a missing
// generator yields an empty response alongside the sources.
func (p *Pipeline) generate(ctx context.Context, bundle schema.ContextBundle, rawQuery string, opts Options) (string, error) {
	if bundle.ChunksUsed == 0 {
		return p.pcfg.FallbackResponse, nil
	}
	if p.generator == nil {
		return "", nil
	}

	system := opts.SystemInstructions
	if system == "" {
		system = llm.DefaultSystemInstructions
	}
	prompt := llm.BuildPrompt(bundle.Content, rawQuery)

	response, usage, err := p.generator.Generate(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	if usage != nil {
		logger.Debugf("orchestrator: generation used %d tokens (%d prompt, %d completion)",
			usage.TotalTokens, usage.PromptTokens, usage.CompletionTokens)
	}
	return response, nil
}

func (p *Pipeline) fail(record *metrics.QueryRecord, start time.Time, nq schema.NormalizedQuery, err error) Result {
	duration := time.Since(start)
	record.TotalLatencyMs = duration.Milliseconds()
	record.Success = false
	record.Error = err.Error()
	record.LogJSON()
	metrics.ObservePipeline(start, false)

	return Result{
		Success: false,
		Sources: []schema.SourceRef{},
		Metadata: Metadata{
			Intent:           nq.Intent,
			IntentConfidence: nq.IntentConfidence,
			DurationMs:       duration.Milliseconds(),
		},
		Error: err.Error(),
	}
}

func (p *Pipeline) cachedBundle(nq schema.NormalizedQuery, scope string) (schema.ContextBundle, bool) {
	if p.bundles == nil {
		return schema.ContextBundle{}, false
	}
	return p.bundles.Get(p.cacheKey(nq, scope))
}

// cacheKey hashes the cleaned query together with everything that can
// change assembly output, so config changes never serve stale bundles.
func (p *Pipeline) cacheKey(nq schema.NormalizedQuery, scope string) string {
	base := fmt.Sprintf("%s|%s|%s|%d|%d", nq.Cleaned, scope, p.fuser.Name(), p.pcfg.TopK, p.pcfg.MaxVariations)
	hash := sha1.Sum([]byte(base))
	return hex.EncodeToString(hash[:])
}

func totalResults(lists [][]schema.SearchResult) int {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	return n
}
