// Package fusion merges the ranked candidate lists produced by querying
// the retrievers with multiple query variations.
package fusion

import (
	"strings"

	"github.com/evidentic/ragcore/schema"
)

// Strategy defines pluggable fusion strategies.
type Strategy interface {
	// Fuse merges multiple ranked lists into a single ranked list.
	Fuse(lists [][]schema.SearchResult) []schema.SearchResult
	// Name returns the strategy identifier.
	Name() string
}

// NewStrategy constructs a strategy by name. The max-score strategy is
// the default: it preserves the retriever's similarity scores, which
// downstream confidence filtering depends on. RRF replaces scores with
// rank-derived values and suits rank-only consumers.
func NewStrategy(name string, rrfK int) Strategy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rrf":
		if rrfK <= 0 {
			rrfK = 60
		}
		return &RRFStrategy{K: rrfK}
	default:
		return &MaxScoreStrategy{}
	}
}
