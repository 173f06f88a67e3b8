package fusion

import (
	"sort"

	"github.com/evidentic/ragcore/schema"
)

// RRFStrategy computes Reciprocal Rank Fusion across ranked lists:
// each occurrence of a document contributes 1/(k+rank).
type RRFStrategy struct {
	K int
}

func (s *RRFStrategy) Name() string { return "rrf" }

func (s *RRFStrategy) Fuse(lists [][]schema.SearchResult) []schema.SearchResult {
	k := s.K
	if k <= 0 {
		k = 60
	}
	type agg struct {
		doc   schema.Document
		score float64
	}
	scores := map[string]*agg{}
	order := make([]string, 0)

	for _, list := range lists {
		for idx, item := range list {
			id := item.Document.ID
			if id == "" {
				continue
			}
			if _, ok := scores[id]; !ok {
				scores[id] = &agg{doc: item.Document}
				order = append(order, id)
			}
			// RRF: 1 / (k + rank)
			scores[id].score += 1.0 / (float64(k) + float64(idx+1))
		}
	}

	out := make([]schema.SearchResult, 0, len(scores))
	for _, id := range order {
		v := scores[id]
		out = append(out, schema.SearchResult{Document: v.doc, Score: v.score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
