package normalize

import "strings"

// auxWords may trail a leading question word and carry no content,
// e.g. "what is", "how do".
var auxWords = map[string]bool{
	"is": true, "are": true, "was": true, "were": true,
	"do": true, "does": true, "did": true,
	"can": true, "could": true, "would": true, "should": true, "will": true,
}

// Variations generates up to max alternate phrasings for the retriever,
// the raw query always first. Duplicates (case-insensitive) collapse.
func (n *Normalizer) Variations(raw string, max int) []string {
	if max <= 0 {
		max = 3
	}

	nq := n.Normalize(raw)

	out := []string{raw}
	seen := map[string]bool{variationKey(raw): true}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || len(out) >= max {
			return
		}
		key := variationKey(v)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, v)
	}

	// Question-to-statement rewrite: drop the leading question word
	// (plus a trailing auxiliary) and the closing question mark.
	if stmt := toStatement(nq.Cleaned); stmt != "" {
		add(stmt)
	}

	// Intent-contextualized rewrite: append the intent's keyword list.
	if kw := n.intentKeywords(nq.Intent); kw != "" {
		add(nq.Cleaned + " " + kw)
	}

	// Keyword-only simplification: top ranked keywords joined.
	if len(nq.Keywords) >= 2 {
		top := nq.Keywords
		if len(top) > 5 {
			top = top[:5]
		}
		add(strings.Join(top, " "))
	}

	return out
}

func variationKey(v string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "?")))
}

func toStatement(cleaned string) string {
	fields := strings.Fields(strings.TrimSuffix(cleaned, "?"))
	if len(fields) < 2 || !questionWords[fields[0]] {
		return ""
	}
	rest := fields[1:]
	if len(rest) > 1 && auxWords[rest[0]] {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return ""
	}
	return strings.Join(rest, " ")
}
