package fusion

import (
	"sort"

	"github.com/evidentic/ragcore/schema"
)

// MaxScoreStrategy merges lists by document ID, keeping the highest
// similarity score seen for each document. Scores stay in the
// retriever's range, so confidence thresholds remain meaningful.
type MaxScoreStrategy struct{}

func (s *MaxScoreStrategy) Name() string { return "max" }

func (s *MaxScoreStrategy) Fuse(lists [][]schema.SearchResult) []schema.SearchResult {
	best := map[string]schema.SearchResult{}
	order := make([]string, 0)

	for _, list := range lists {
		for _, item := range list {
			id := item.Document.ID
			if id == "" {
				continue
			}
			prev, ok := best[id]
			if !ok {
				best[id] = item
				order = append(order, id)
				continue
			}
			if item.Score > prev.Score {
				best[id] = item
			}
		}
	}

	out := make([]schema.SearchResult, 0, len(best))
	for _, id := range order {
		out = append(out, best[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
