// Package assemble turns a pool of scored candidate passages into a
// token-budgeted, deduplicated, source-diversified context bundle.
// Assembly is deterministic: identical candidates and config always
// produce a byte-identical bundle.
package assemble

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/evidentic/ragcore/common/logger"
	"github.com/evidentic/ragcore/config"
	"github.com/evidentic/ragcore/metrics"
	"github.com/evidentic/ragcore/schema"
)

// Assembler applies the assembly pipeline with a fixed configuration.
type Assembler struct {
	cfg config.AssemblerConfig
	now func() time.Time
}

// New creates an Assembler; unset config fields fall back to defaults.
func New(cfg config.AssemblerConfig) *Assembler {
	return &Assembler{cfg: cfg.Normalize(), now: time.Now}
}

// Assemble runs confidence filtering, deduplication, source
// diversification, multi-factor ranking and budgeted assembly, strictly
// in that order. It never fails on well-typed input; an empty or fully
// filtered candidate pool yields an empty zero-confidence bundle.
func (a *Assembler) Assemble(candidates []schema.SearchResult) schema.ContextBundle {
	filtered := a.filterByConfidence(candidates)
	if len(filtered) == 0 {
		logger.Debugf("assemble: no candidates above score %.2f (input %d)", a.cfg.MinScore, len(candidates))
		return schema.ContextBundle{Sources: []schema.SourceRef{}}
	}

	deduped := a.dedupe(filtered)
	diversified := a.diversify(deduped)
	ranked := a.rank(diversified)
	bundle := a.build(ranked)

	metrics.ObserveAssembly(len(candidates), len(filtered), len(deduped), len(diversified), bundle.ChunksUsed)
	logger.Debugf("assemble: %d candidates -> %d filtered -> %d deduped -> %d diversified -> %d included",
		len(candidates), len(filtered), len(deduped), len(diversified), bundle.ChunksUsed)
	return bundle
}

// filterByConfidence clamps scores into [0,1] and drops candidates
// below the minimum. Candidates without content are treated as score
// zero and dropped here.
func (a *Assembler) filterByConfidence(candidates []schema.SearchResult) []schema.SearchResult {
	out := make([]schema.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Document.Content) == "" {
			continue
		}
		c.Score = clamp01(c.Score)
		if c.Score < a.cfg.MinScore {
			continue
		}
		out = append(out, c)
	}
	return out
}

// dedupe removes exact fingerprint collisions, then near-duplicates by
// Jaccard word-set similarity against already-accepted candidates.
// Candidates are sorted by score (descending, stable) first so the best
// representative of a duplicate cluster survives.
func (a *Assembler) dedupe(candidates []schema.SearchResult) []schema.SearchResult {
	sorted := append([]schema.SearchResult(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	seen := make(map[string]bool, len(sorted))
	accepted := make([]schema.SearchResult, 0, len(sorted))
	acceptedWords := make([]map[string]bool, 0, len(sorted))

	for _, c := range sorted {
		fp := fingerprint(c.Document.Content)
		if seen[fp] {
			continue
		}

		words := wordSet(c.Document.Content)
		dup := false
		for _, prev := range acceptedWords {
			if jaccard(words, prev) > a.cfg.SimilarityThreshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		seen[fp] = true
		accepted = append(accepted, c)
		acceptedWords = append(acceptedWords, words)
	}
	return accepted
}

// diversify caps how many passages any single source contributes:
// floor(maxChunks / distinct sources), minimum one. Within a source,
// higher-scored passages win.
func (a *Assembler) diversify(candidates []schema.SearchResult) []schema.SearchResult {
	groups := make(map[string][]schema.SearchResult)
	order := make([]string, 0)
	for _, c := range candidates {
		src := c.Document.SourceName()
		if _, ok := groups[src]; !ok {
			order = append(order, src)
		}
		groups[src] = append(groups[src], c)
	}

	perSource := a.cfg.MaxChunks / len(groups)
	if perSource < 1 {
		perSource = 1
	}

	out := make([]schema.SearchResult, 0, len(candidates))
	for _, src := range order {
		g := groups[src]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Score > g[j].Score })
		if len(g) > perSource {
			g = g[:perSource]
		}
		out = append(out, g...)
	}
	return out
}

// rank orders candidates by a composite of similarity (0.7), recency
// decay (0.2) and content quality (0.1).
func (a *Assembler) rank(candidates []schema.SearchResult) []schema.SearchResult {
	type scored struct {
		c         schema.SearchResult
		composite float64
	}
	items := make([]scored, len(candidates))
	now := a.now()
	for i, c := range candidates {
		items[i] = scored{
			c:         c,
			composite: 0.7*c.Score + 0.2*recencyScore(c.Document.Metadata, now) + 0.1*qualityScore(c.Document.Content),
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].composite > items[j].composite })

	out := make([]schema.SearchResult, len(items))
	for i, it := range items {
		out[i] = it.c
	}
	return out
}

// build greedily appends ranked passages until the chunk cap or the
// character budget is reached. The first passage that would overflow
// the budget stops assembly outright.
func (a *Assembler) build(ranked []schema.SearchResult) schema.ContextBundle {
	budget := a.cfg.CharBudget()

	var b strings.Builder
	b.WriteString(a.cfg.Header)
	total := len(a.cfg.Header)

	sources := make([]schema.SourceRef, 0, a.cfg.MaxChunks)
	var scoreSum float64

	for _, c := range ranked {
		if len(sources) >= a.cfg.MaxChunks {
			break
		}
		block := fmt.Sprintf("[Source: %s]\n%s\n\n", c.Document.DisplayTitle(), c.Document.Content)
		if total+len(block) > budget {
			break
		}
		b.WriteString(block)
		total += len(block)
		scoreSum += c.Score
		sources = append(sources, schema.SourceRef{
			ID:      c.Document.ID,
			Title:   c.Document.DisplayTitle(),
			Source:  c.Document.SourceName(),
			Score:   c.Score,
			Excerpt: excerpt(c.Document.Content),
		})
	}

	if len(sources) == 0 {
		return schema.ContextBundle{Sources: []schema.SourceRef{}}
	}

	content := b.String()
	return schema.ContextBundle{
		Content:         content,
		Sources:         sources,
		ChunksUsed:      len(sources),
		Confidence:      math.Round(scoreSum/float64(len(sources))*100) / 100,
		TotalChars:      len(content),
		EstimatedTokens: estimateTokens(content),
	}
}

// recencyScore decays exponentially with content age; one year old
// scores about 0.37. Unknown timestamps score a neutral 0.5.
func recencyScore(m *schema.Metadata, now time.Time) float64 {
	ts := m.LastModified()
	if ts.IsZero() {
		return 0.5
	}
	ageDays := now.Sub(ts).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-ageDays / 365)
}

// qualityScore blends length closeness to an ideal 500 characters
// (0.3), sentence-count adequacy (0.3) and lexical diversity (0.4).
func qualityScore(content string) float64 {
	length := len(content)
	lengthScore := 1 - math.Abs(float64(length)-500)/500
	if lengthScore < 0 {
		lengthScore = 0
	}

	sentences := countSentences(content)
	sentenceScore := float64(sentences) / 5
	if sentenceScore > 1 {
		sentenceScore = 1
	}

	words := strings.Fields(strings.ToLower(content))
	var diversity float64
	if len(words) > 0 {
		unique := make(map[string]bool, len(words))
		for _, w := range words {
			unique[w] = true
		}
		diversity = float64(len(unique)) / float64(len(words))
	}

	return clamp01(0.3*lengthScore + 0.3*sentenceScore + 0.4*diversity)
}

func countSentences(content string) int {
	n := 0
	inRun := false
	for _, r := range content {
		if r == '.' || r == '!' || r == '?' {
			if !inRun {
				n++
			}
			inRun = true
		} else {
			inRun = false
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
