package retriever

import (
	"context"
	"fmt"

	"github.com/evidentic/ragcore/embedding"
	"github.com/evidentic/ragcore/schema"
	"github.com/evidentic/ragcore/vectordb"
)

// VectorRetriever implements Retriever using an embedding provider and
// a vector store backend.
type VectorRetriever struct {
	Embed embedding.Provider
	Store vectordb.Provider
	TopK  int
	// Threshold is forwarded to the vector search options.
	Threshold float64
}

func (r *VectorRetriever) Type() string { return "vector" }

func (r *VectorRetriever) Search(ctx context.Context, query string, topK int) ([]schema.SearchResult, error) {
	if topK <= 0 {
		if r.TopK > 0 {
			topK = r.TopK
		} else {
			topK = 10
		}
	}
	v, err := r.Embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := r.Store.SearchDocs(ctx, v, &schema.SearchOptions{TopK: topK, Threshold: r.Threshold})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}
