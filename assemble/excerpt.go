package assemble

import "strings"

const (
	excerptLimit = 150
	// A sentence boundary only counts when it lands past this share of
	// the truncation window; earlier boundaries cut too much away.
	excerptBoundaryMin = 0.6
)

// excerpt produces the source-attribution snippet for a passage:
// verbatim when short, otherwise truncated at the last sentence end
// past 60% of the window, or at the last word boundary with an
// ellipsis.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}

	cut := string(runes[:excerptLimit])

	if i := strings.LastIndexAny(cut, ".!?"); i >= int(excerptBoundaryMin*excerptLimit) {
		return cut[:i+1]
	}

	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
