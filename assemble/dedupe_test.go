package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintNormalizesWhitespaceAndCase(t *testing.T) {
	a := fingerprint("Refunds are processed within five days.")
	b := fingerprint("  refunds   ARE processed\twithin five days.  ")
	assert.Equal(t, a, b)
}

func TestFingerprintDistinguishesLength(t *testing.T) {
	// Same head and tail, different middle length.
	long := strings.Repeat("p", 60) + strings.Repeat("q", 40) + strings.Repeat("r", 60)
	longer := strings.Repeat("p", 60) + strings.Repeat("q", 80) + strings.Repeat("r", 60)
	assert.NotEqual(t, fingerprint(long), fingerprint(longer))
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, jaccard(wordSet(""), wordSet("")))
	assert.Equal(t, 1.0, jaccard(wordSet("a b c"), wordSet("c b a")))
	assert.Equal(t, 0.0, jaccard(wordSet("a b"), wordSet("c d")))
	assert.InDelta(t, 0.5, jaccard(wordSet("a b c"), wordSet("b c d")), 0.0001)
	assert.Equal(t, 0.0, jaccard(wordSet("a b"), wordSet("")))
}

func TestWordSetLowercases(t *testing.T) {
	set := wordSet("Alpha BETA alpha")
	assert.Len(t, set, 2)
	assert.True(t, set["alpha"])
	assert.True(t, set["beta"])
}
