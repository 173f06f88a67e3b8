// Package normalize turns a raw user question into a cleaned,
// intent-classified query representation and generates recall-widening
// variations of it. It never fails: malformed input degrades to a
// low-confidence general query.
package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/evidentic/ragcore/config"
	"github.com/evidentic/ragcore/schema"
)

var (
	allowedChars = regexp.MustCompile(`[^\w\s?!.,-]`)
	multiSpace   = regexp.MustCompile(`\s+`)
	nonWord      = regexp.MustCompile(`\W`)
)

type intentRule struct {
	intent     schema.Intent
	pattern    *regexp.Regexp
	confidence float64
	keywords   string
}

// Normalizer holds the immutable query tables. Construct once at
// startup and share freely across requests.
type Normalizer struct {
	stopWords map[string]bool
	synonyms  map[string][]string
	rules     []intentRule
}

// New builds a Normalizer from config, falling back to the compiled
// default tables for any empty section. Rules with invalid patterns or
// out-of-range confidence are skipped; config.Validate reports them.
func New(cfg config.QueryConfig) *Normalizer {
	n := &Normalizer{
		stopWords: make(map[string]bool),
		synonyms:  make(map[string][]string),
	}

	words := cfg.StopWords
	if len(words) == 0 {
		words = defaultStopWords
	}
	for _, w := range words {
		n.stopWords[strings.ToLower(w)] = true
	}

	syn := cfg.Synonyms
	if len(syn) == 0 {
		syn = defaultSynonyms
	}
	for term, alts := range syn {
		n.synonyms[strings.ToLower(term)] = append([]string(nil), alts...)
	}

	rules := cfg.IntentRules
	if len(rules) == 0 {
		rules = defaultIntentRules
	}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil || r.Intent == "" || r.Confidence < 0 || r.Confidence > 1 {
			continue
		}
		n.rules = append(n.rules, intentRule{
			intent:     schema.Intent(r.Intent),
			pattern:    re,
			confidence: r.Confidence,
			keywords:   r.Keywords,
		})
	}

	return n
}

// Normalize cleans and classifies a raw query. Empty or whitespace-only
// input yields an empty-keyword general query with confidence 0.5.
func (n *Normalizer) Normalize(raw string) schema.NormalizedQuery {
	cleaned := n.clean(raw)
	intent, confidence := n.classify(cleaned)
	return schema.NormalizedQuery{
		Original:         raw,
		Cleaned:          cleaned,
		Keywords:         n.extractKeywords(cleaned),
		Intent:           intent,
		IntentConfidence: confidence,
		Expanded:         n.expand(cleaned),
		Complexity:       complexity(cleaned),
	}
}

// clean lowercases, expands informal abbreviations, strips characters
// outside the word/space/basic-punctuation set and collapses whitespace.
func (n *Normalizer) clean(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// Abbreviations expand before the character filter removes "/" and "&".
	fields := strings.Fields(s)
	for i, f := range fields {
		if full, ok := abbreviations[f]; ok {
			fields[i] = full
		}
	}
	s = strings.Join(fields, " ")

	s = allowedChars.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// extractKeywords tokenizes the cleaned query, drops stop words and
// short tokens, deduplicates by first occurrence, then orders content
// words before question words with longer tokens first in each group.
func (n *Normalizer) extractKeywords(cleaned string) []string {
	if cleaned == "" {
		return nil
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, tok := range strings.Fields(cleaned) {
		tok = nonWord.ReplaceAllString(tok, "")
		if len(tok) < 2 || n.stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		qi, qj := questionWords[keywords[i]], questionWords[keywords[j]]
		if qi != qj {
			return !qi
		}
		return len(keywords[i]) > len(keywords[j])
	})
	return keywords
}

// classify evaluates the rule table against the cleaned query and
// reports the highest-confidence match. Rules are independent; a query
// matching several intents is labeled with the strongest one only.
func (n *Normalizer) classify(cleaned string) (schema.Intent, float64) {
	intent := schema.IntentGeneral
	confidence := 0.5
	for _, r := range n.rules {
		if r.confidence > confidence && r.pattern.MatchString(cleaned) {
			intent = r.intent
			confidence = r.confidence
		}
	}
	return intent, confidence
}

// expand appends the first dictionary synonym after each matched token
// and deduplicates the result.
func (n *Normalizer) expand(cleaned string) string {
	if cleaned == "" {
		return ""
	}

	var out []string
	seen := make(map[string]bool)
	appendToken := func(tok string) {
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		out = append(out, tok)
	}

	for _, tok := range strings.Fields(cleaned) {
		appendToken(tok)
		bare := nonWord.ReplaceAllString(tok, "")
		if alts, ok := n.synonyms[bare]; ok && len(alts) > 0 {
			appendToken(alts[0])
		}
	}
	return strings.Join(out, " ")
}

// intentKeywords returns the expansion keyword list configured for an
// intent, empty for general or unknown intents.
func (n *Normalizer) intentKeywords(intent schema.Intent) string {
	for _, r := range n.rules {
		if r.intent == intent {
			return r.keywords
		}
	}
	return ""
}

// complexity scores how involved a query is: word-count closeness to a
// 5-10 word sweet spot (0.3), average word length above 4 (0.2),
// presence of a question mark (0.3) and compound conjunctions (0.2 cap).
func complexity(cleaned string) float64 {
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return 0
	}

	var score float64

	wc := len(words)
	switch {
	case wc >= 5 && wc <= 10:
		score += 0.3
	case wc < 5:
		score += 0.3 * float64(wc) / 5
	default:
		score += 0.3 * 10 / float64(wc)
	}

	total := 0
	for _, w := range words {
		total += len(w)
	}
	if float64(total)/float64(len(words)) > 4 {
		score += 0.2
	}

	if strings.Contains(cleaned, "?") {
		score += 0.3
	}

	conjunctions := map[string]bool{"and": true, "or": true, "but": true, "because": true, "however": true}
	var conj float64
	for _, w := range words {
		if conjunctions[strings.Trim(w, "?!.,-")] {
			conj += 0.2
		}
	}
	if conj > 0.2 {
		conj = 0.2
	}
	score += conj

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}
