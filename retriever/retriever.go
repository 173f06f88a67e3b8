// Package retriever defines the unified candidate-retrieval interface
// and the backends that implement it. The core treats the ordering of
// returned candidates as arbitrary and re-ranks during assembly.
package retriever

import (
	"context"

	"github.com/evidentic/ragcore/schema"
)

// Retriever defines a unified search interface across different backends.
type Retriever interface {
	Type() string
	Search(ctx context.Context, query string, topK int) ([]schema.SearchResult, error)
}
