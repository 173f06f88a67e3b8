package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evidentic/ragcore/config"
	"github.com/evidentic/ragcore/schema"
)

func TestNormalizePricingQuery(t *testing.T) {
	n := New(config.QueryConfig{})
	nq := n.Normalize("What is your pricing?")

	assert.Equal(t, schema.IntentPricing, nq.Intent)
	assert.Equal(t, 0.9, nq.IntentConfidence)
	assert.NotContains(t, nq.Keywords, "what")
	assert.NotContains(t, nq.Keywords, "is")
	assert.NotContains(t, nq.Keywords, "your")
	assert.Contains(t, nq.Keywords, "pricing")
	assert.Greater(t, nq.Complexity, 0.0, "question mark must contribute complexity")
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := New(config.QueryConfig{})

	for _, raw := range []string{"", "   ", "\t\n"} {
		nq := n.Normalize(raw)
		assert.Equal(t, raw, nq.Original)
		assert.Empty(t, nq.Cleaned)
		assert.Empty(t, nq.Keywords)
		assert.Equal(t, schema.IntentGeneral, nq.Intent)
		assert.Equal(t, 0.5, nq.IntentConfidence)
	}
}

func TestCleanExpandsAbbreviations(t *testing.T) {
	n := New(config.QueryConfig{})

	nq := n.Normalize("can u tell me ur price w/ shipping & handling")
	assert.Contains(t, nq.Cleaned, "you tell")
	assert.Contains(t, nq.Cleaned, "your price")
	assert.Contains(t, nq.Cleaned, "with shipping")
	assert.Contains(t, nq.Cleaned, "and handling")
}

func TestCleanStripsDisallowedChars(t *testing.T) {
	n := New(config.QueryConfig{})

	nq := n.Normalize("  What   <b>is</b> *this* thing???  ")
	assert.Equal(t, "what bisb this thing???", nq.Cleaned)
}

func TestKeywordOrdering(t *testing.T) {
	n := New(config.QueryConfig{})

	// Question words sort after content words; longer tokens first
	// within each group.
	nq := n.Normalize("how compare subscription tiers how")
	assert.Equal(t, []string{"subscription", "compare", "tiers", "how"}, nq.Keywords)
}

func TestKeywordsDedupeAndMinLength(t *testing.T) {
	n := New(config.QueryConfig{})

	nq := n.Normalize("go go pricing pricing x")
	assert.Equal(t, []string{"pricing", "go"}, nq.Keywords)
}

func TestIntentHighestConfidenceWins(t *testing.T) {
	n := New(config.QueryConfig{})

	// Matches both pricing (0.9) and support (0.85); pricing wins.
	nq := n.Normalize("pricing help")
	assert.Equal(t, schema.IntentPricing, nq.Intent)
	assert.Equal(t, 0.9, nq.IntentConfidence)
}

func TestIntentNeverBelowDefault(t *testing.T) {
	cfg := config.QueryConfig{
		IntentRules: []config.IntentRule{
			{Intent: "weak", Pattern: `weak`, Confidence: 0.3},
		},
	}
	n := New(cfg)

	nq := n.Normalize("weak signal")
	assert.Equal(t, schema.IntentGeneral, nq.Intent)
	assert.Equal(t, 0.5, nq.IntentConfidence)
}

func TestCustomIntentRules(t *testing.T) {
	cfg := config.QueryConfig{
		IntentRules: []config.IntentRule{
			{Intent: "shipping", Pattern: `\b(ship|shipping|delivery)\b`, Confidence: 0.8},
		},
	}
	n := New(cfg)

	nq := n.Normalize("when does shipping start")
	assert.Equal(t, schema.Intent("shipping"), nq.Intent)
	assert.Equal(t, 0.8, nq.IntentConfidence)
}

func TestExpansionAppendsFirstSynonym(t *testing.T) {
	n := New(config.QueryConfig{})

	nq := n.Normalize("price list")
	assert.Equal(t, "price cost list", nq.Expanded)
}

func TestExpansionDeduplicates(t *testing.T) {
	cfg := config.QueryConfig{
		Synonyms: map[string][]string{"car": {"vehicle"}},
	}
	n := New(cfg)

	nq := n.Normalize("car vehicle car")
	assert.Equal(t, "car vehicle", nq.Expanded)
}

func TestComplexityScoring(t *testing.T) {
	n := New(config.QueryConfig{})

	short := n.Normalize("hi")
	long := n.Normalize("how does your enterprise subscription pricing compare against competitors?")
	assert.Greater(t, long.Complexity, short.Complexity)

	question := n.Normalize("pricing plans available today maybe?")
	statement := n.Normalize("pricing plans available today maybe")
	assert.Greater(t, question.Complexity, statement.Complexity)

	// Complexity stays clamped even for heavily loaded queries.
	loaded := n.Normalize("compare enterprise pricing and support because features and documentation however matter?")
	assert.LessOrEqual(t, loaded.Complexity, 1.0)
}
