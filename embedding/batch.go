package embedding

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/evidentic/ragcore/common/logger"
	"github.com/evidentic/ragcore/config"
)

// BatchError records one failed item of a batch run.
type BatchError struct {
	Index int
	Text  string
	Err   error
}

// BatchResult reports a batch embedding run. Failed items leave a nil
// vector at their index and an entry in Errors; a batch never aborts on
// individual failures.
type BatchResult struct {
	Vectors     [][]float32
	Errors      []BatchError
	SuccessRate float64
}

// BatchEmbedder embeds many texts in fixed-size batches. All items of a
// batch are issued concurrently; consecutive batches are paced to
// respect upstream rate limits.
type BatchEmbedder struct {
	provider  Provider
	batchSize int
	limiter   *rate.Limiter
}

// NewBatchEmbedder configures batching from the embedding config
// (batch size default 100, inter-batch delay default 1s).
func NewBatchEmbedder(provider Provider, cfg config.EmbeddingConfig) *BatchEmbedder {
	size := cfg.BatchSize
	if size <= 0 {
		size = config.DefaultBatchSize
	}
	delay := time.Duration(cfg.BatchDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = time.Duration(config.DefaultBatchDelayMs) * time.Millisecond
	}
	return &BatchEmbedder{
		provider:  provider,
		batchSize: size,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
	}
}

// EmbedAll embeds every text, collecting per-item failures instead of
// aborting. Only context cancellation stops a run early.
func (b *BatchEmbedder) EmbedAll(ctx context.Context, texts []string) (*BatchResult, error) {
	result := &BatchResult{Vectors: make([][]float32, len(texts))}

	var mu sync.Mutex
	for start := 0; start < len(texts); start += b.batchSize {
		if err := b.limiter.Wait(ctx); err != nil {
			return result, err
		}

		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				vec, err := b.provider.GetEmbedding(ctx, texts[idx])
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Errors = append(result.Errors, BatchError{Index: idx, Text: texts[idx], Err: err})
					return
				}
				result.Vectors[idx] = vec
			}(i)
		}
		wg.Wait()

		logger.Debugf("embedding: batch %d-%d done, %d errors so far", start, end-1, len(result.Errors))
	}

	if len(texts) > 0 {
		result.SuccessRate = float64(len(texts)-len(result.Errors)) / float64(len(texts))
	}
	return result, nil
}
