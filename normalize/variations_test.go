package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evidentic/ragcore/config"
)

func TestVariationsRawAlwaysFirst(t *testing.T) {
	n := New(config.QueryConfig{})

	vars := n.Variations("What is your pricing?", 3)
	assert.Equal(t, "What is your pricing?", vars[0])
	assert.LessOrEqual(t, len(vars), 3)
}

func TestVariationsQuestionToStatement(t *testing.T) {
	n := New(config.QueryConfig{})

	vars := n.Variations("What is your pricing?", 3)
	assert.Contains(t, vars, "your pricing")
}

func TestVariationsIntentContext(t *testing.T) {
	n := New(config.QueryConfig{})

	vars := n.Variations("how much does shipping cost", 4)
	assert.Contains(t, vars, "how much does shipping cost cost price fee rate")
}

func TestVariationsKeywordSimplification(t *testing.T) {
	n := New(config.QueryConfig{})

	// Not a question, no intent keywords for general intent, so the
	// keyword join is the only extra variation.
	vars := n.Variations("enterprise deployment documentation guide", 4)
	assert.Contains(t, vars, "documentation enterprise deployment guide")
}

func TestVariationsDeduplicate(t *testing.T) {
	n := New(config.QueryConfig{})

	// The statement rewrite of "what is pricing?" is "pricing", which
	// collapses with nothing else here; the raw query must not repeat
	// under case or trailing-? differences.
	vars := n.Variations("pricing", 5)
	seen := make(map[string]bool)
	for _, v := range vars {
		key := variationKey(v)
		assert.False(t, seen[key], "duplicate variation %q", v)
		seen[key] = true
	}
}

func TestVariationsRespectsMax(t *testing.T) {
	n := New(config.QueryConfig{})

	vars := n.Variations("how much does your enterprise support pricing cost?", 2)
	assert.Len(t, vars, 2)

	one := n.Variations("how much does your enterprise support pricing cost?", 1)
	assert.Equal(t, []string{"how much does your enterprise support pricing cost?"}, one)
}

func TestVariationsDefaultMax(t *testing.T) {
	n := New(config.QueryConfig{})

	vars := n.Variations("how much does pricing cost?", 0)
	assert.LessOrEqual(t, len(vars), 3)
	assert.GreaterOrEqual(t, len(vars), 1)
}

func TestToStatement(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"what is your pricing?", "your pricing"},
		{"how do refunds work", "refunds work"},
		{"where is the office?", "the office"},
		{"pricing plans", ""},
		{"what?", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, toStatement(c.in), "toStatement(%q)", c.in)
	}
}
