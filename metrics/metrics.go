package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	retrieverLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragcore_retriever_latency_ms",
		Help:    "Latency of retriever calls in milliseconds",
		Buckets: []float64{10, 25, 50, 75, 100, 150, 200, 300, 500, 800, 1200},
	}, []string{"type"})

	retrieverResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragcore_retriever_results",
		Help:    "Number of results returned by a retriever",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"type"})

	assemblyStage = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragcore_assembly_stage_survivors",
		Help:    "Candidates surviving each assembly stage",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"stage"})

	queryIntent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ragcore_query_intent_total",
		Help: "Classified query intents",
	}, []string{"intent"})

	pipelineDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ragcore_pipeline_duration_ms",
		Help:    "End-to-end query processing duration in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000},
	}, []string{"outcome"})

	cacheOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ragcore_cache_total",
		Help: "Bundle cache hits and misses",
	}, []string{"outcome"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(retrieverLatency, retrieverResults, assemblyStage, queryIntent, pipelineDuration, cacheOutcome)
	})
}

// ObserveRetriever records latency and result size for a retriever type.
func ObserveRetriever(typ string, start time.Time, results int) {
	ensureRegistered()
	dur := time.Since(start).Milliseconds()
	retrieverLatency.WithLabelValues(typ).Observe(float64(dur))
	retrieverResults.WithLabelValues(typ).Observe(float64(results))
}

// ObserveAssembly records survivor counts per assembly stage.
func ObserveAssembly(input, filtered, deduped, diversified, included int) {
	ensureRegistered()
	assemblyStage.WithLabelValues("input").Observe(float64(input))
	assemblyStage.WithLabelValues("filtered").Observe(float64(filtered))
	assemblyStage.WithLabelValues("deduped").Observe(float64(deduped))
	assemblyStage.WithLabelValues("diversified").Observe(float64(diversified))
	assemblyStage.WithLabelValues("included").Observe(float64(included))
}

// IncIntent counts a classified intent.
func IncIntent(intent string) {
	ensureRegistered()
	queryIntent.WithLabelValues(intent).Inc()
}

// ObservePipeline records end-to-end duration with a success/failure label.
func ObservePipeline(start time.Time, success bool) {
	ensureRegistered()
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	pipelineDuration.WithLabelValues(outcome).Observe(float64(time.Since(start).Milliseconds()))
}

// IncCache records a bundle cache hit or miss.
func IncCache(hit bool) {
	ensureRegistered()
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	cacheOutcome.WithLabelValues(outcome).Inc()
}
