package metrics

import (
	"encoding/json"
	"time"

	"github.com/evidentic/ragcore/common/logger"
)

// QueryRecord captures the full trace of one query-processing
// invocation, logged as a single JSON line for offline analysis.
type QueryRecord struct {
	QueryID   string    `json:"query_id"`
	Query     string    `json:"query"`
	Scope     string    `json:"scope,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Intent           string  `json:"intent,omitempty"`
	IntentConfidence float64 `json:"intent_confidence,omitempty"`
	Complexity       float64 `json:"complexity,omitempty"`
	VariationCount   int     `json:"variation_count,omitempty"`

	RetrieverMetrics map[string]RetrieverStats `json:"retriever_metrics,omitempty"`
	TotalRetrieved   int                       `json:"total_retrieved"`
	FusionMethod     string                    `json:"fusion_method,omitempty"`
	FusedCount       int                       `json:"fused_count,omitempty"`

	ChunksUsed int     `json:"chunks_used"`
	Confidence float64 `json:"confidence"`
	TotalChars int     `json:"total_chars,omitempty"`
	CacheHit   bool    `json:"cache_hit,omitempty"`

	TotalLatencyMs int64  `json:"total_latency_ms"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
}

// RetrieverStats summarizes one retriever's contribution to a query.
type RetrieverStats struct {
	Calls     int   `json:"calls"`
	Results   int   `json:"results"`
	Errors    int   `json:"errors"`
	LatencyMs int64 `json:"latency_ms"`
}

// NewQueryRecord starts a record with the timestamp set.
func NewQueryRecord() *QueryRecord {
	return &QueryRecord{
		Timestamp:        time.Now(),
		RetrieverMetrics: make(map[string]RetrieverStats),
	}
}

// AddRetrieverCall accumulates stats for one retriever call.
func (r *QueryRecord) AddRetrieverCall(typ string, results int, latency time.Duration, err error) {
	s := r.RetrieverMetrics[typ]
	s.Calls++
	s.Results += results
	s.LatencyMs += latency.Milliseconds()
	if err != nil {
		s.Errors++
	}
	r.RetrieverMetrics[typ] = s
}

// LogJSON emits the record as one JSON line.
func (r *QueryRecord) LogJSON() {
	data, err := json.Marshal(r)
	if err != nil {
		logger.Warnf("metrics: marshal query record failed: %v", err)
		return
	}
	logger.Infof("query_record %s", string(data))
}
