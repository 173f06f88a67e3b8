package assemble

import (
	"fmt"
	"strings"
)

// fingerprint is a cheap digest for exact-duplicate detection: the
// first and last 50 characters of the normalized text plus its length.
// Collisions on distinct passages are possible but harmless, since the
// Jaccard pass catches near-duplicates anyway.
func fingerprint(content string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(content)), " ")
	runes := []rune(norm)

	head := runes
	if len(head) > 50 {
		head = head[:50]
	}
	tail := runes
	if len(tail) > 50 {
		tail = tail[len(tail)-50:]
	}
	return fmt.Sprintf("%s|%s|%d", string(head), string(tail), len(runes))
}

// wordSet lowercases and tokenizes content into a set for Jaccard
// comparison.
func wordSet(content string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(content)) {
		set[w] = true
	}
	return set
}

// jaccard is |A∩B| / |A∪B| over word sets; 1 for two empty sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
