package schema

// Intent is a coarse classification of the user's goal, used to bias
// query expansion and variation generation.
type Intent string

const (
	IntentGeneral     Intent = "general"
	IntentInformation Intent = "information"
	IntentComparison  Intent = "comparison"
	IntentPricing     Intent = "pricing"
	IntentSupport     Intent = "support"
	IntentContact     Intent = "contact"
	IntentPurchase    Intent = "purchase"
	IntentFeatures    Intent = "features"
)

// NormalizedQuery is the cleaned, classified representation of a raw query.
type NormalizedQuery struct {
	// Original is the raw input string, untouched.
	Original string `json:"original"`
	// Cleaned is the lowercased, whitespace-collapsed, punctuation-normalized form.
	Cleaned string `json:"cleaned"`
	// Keywords are unique content tokens, question words sorted last,
	// longer tokens first within each group.
	Keywords []string `json:"keywords"`
	// Intent is the single highest-confidence rule match, IntentGeneral if none.
	Intent Intent `json:"intent"`
	// IntentConfidence is in [0,1]; 0.5 for the general default.
	IntentConfidence float64 `json:"intent_confidence"`
	// Expanded is Cleaned with at most one synonym appended per matched term.
	Expanded string `json:"expanded"`
	// Complexity is a [0,1] heuristic of how involved the query is.
	Complexity float64 `json:"complexity"`
}

// ContextBundle is the final, budget-constrained assembly of passages
// plus attribution metadata handed to a text generator.
type ContextBundle struct {
	Content         string      `json:"content"`
	Sources         []SourceRef `json:"sources"`
	ChunksUsed      int         `json:"chunks_used"`
	Confidence      float64     `json:"confidence"`
	TotalChars      int         `json:"total_chars"`
	EstimatedTokens int         `json:"estimated_tokens"`
}

// SourceRef identifies one passage actually included in a bundle.
type SourceRef struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
}
