// Package vectordb wraps the vector similarity store behind a small
// provider interface. The core treats result ordering as arbitrary and
// re-ranks during assembly.
package vectordb

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/evidentic/ragcore/config"
	"github.com/evidentic/ragcore/schema"
)

// Provider is a vector similarity search backend.
type Provider interface {
	SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error)
	Close() error
}

// NewProvider builds a vector store provider from config.
func NewProvider(cfg *config.VectorDBConfig) (Provider, error) {
	switch cfg.Provider {
	case "milvus":
		return newMilvusProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported vectordb provider: %s", cfg.Provider)
	}
}

const (
	fieldID        = "id"
	fieldContent   = "content"
	fieldTitle     = "title"
	fieldSource    = "source"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
	fieldVector    = "vector"
)

type milvusProvider struct {
	client     client.Client
	collection string
}

func newMilvusProvider(cfg *config.VectorDBConfig) (*milvusProvider, error) {
	port := cfg.Port
	if port == 0 {
		port = 19530
	}
	c, err := client.NewClient(context.Background(), client.Config{
		Address:  fmt.Sprintf("%s:%d", cfg.Host, port),
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}
	return &milvusProvider{client: c, collection: cfg.Collection}, nil
}

func (p *milvusProvider) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	topK := 10
	threshold := 0.0
	if opts != nil {
		if opts.TopK > 0 {
			topK = opts.TopK
		}
		threshold = opts.Threshold
	}

	sp, err := entity.NewIndexAUTOINDEXSearchParam(1)
	if err != nil {
		return nil, fmt.Errorf("build search param: %w", err)
	}

	outputFields := []string{fieldID, fieldContent, fieldTitle, fieldSource, fieldCreatedAt, fieldUpdatedAt}
	results, err := p.client.Search(ctx, p.collection, nil, "", outputFields,
		[]entity.Vector{entity.FloatVector(vector)}, fieldVector, entity.COSINE, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("milvus search: %w", err)
	}

	out := make([]schema.SearchResult, 0, topK)
	for _, rs := range results {
		for i := 0; i < rs.ResultCount; i++ {
			score := float64(rs.Scores[i])
			if score < threshold {
				continue
			}
			doc := schema.Document{
				ID:      columnString(rs.IDs, i),
				Content: columnString(rs.Fields.GetColumn(fieldContent), i),
				Title:   columnString(rs.Fields.GetColumn(fieldTitle), i),
				Source:  columnString(rs.Fields.GetColumn(fieldSource), i),
			}
			created := columnTime(rs.Fields.GetColumn(fieldCreatedAt), i)
			updated := columnTime(rs.Fields.GetColumn(fieldUpdatedAt), i)
			if !created.IsZero() || !updated.IsZero() {
				doc.Metadata = &schema.Metadata{CreatedAt: created, UpdatedAt: updated}
			}
			out = append(out, schema.SearchResult{Document: doc, Score: score})
		}
	}
	return out, nil
}

func (p *milvusProvider) Close() error {
	return p.client.Close()
}

func columnString(col entity.Column, idx int) string {
	if col == nil {
		return ""
	}
	v, err := col.Get(idx)
	if err != nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// columnTime parses RFC3339 timestamps stored as varchar columns.
func columnTime(col entity.Column, idx int) time.Time {
	s := columnString(col, idx)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
