package normalize

import "github.com/evidentic/ragcore/config"

// Default data tables for the normalizer. All of these can be replaced
// through config.QueryConfig; they are copied at construction time so a
// Normalizer never shares mutable state with its caller.

// defaultStopWords is a small set of common function words dropped
// during keyword extraction.
var defaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
	"for", "of", "with", "by", "from", "up", "about", "into", "through", "during",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "should", "could", "may", "might", "can",
	"i", "you", "your", "he", "she", "it", "we", "they", "this", "that", "what",
}

// questionWords sort after all other keywords; they carry less
// discriminating power for retrieval.
var questionWords = map[string]bool{
	"what": true, "how": true, "why": true, "when": true,
	"where": true, "who": true, "which": true, "whose": true, "whom": true,
}

// abbreviations expands a fixed set of informal shorthand before the
// character filter strips symbols like "/" and "&".
var abbreviations = map[string]string{
	"u":   "you",
	"ur":  "your",
	"w/":  "with",
	"&":   "and",
	"pls": "please",
	"plz": "please",
}

// defaultSynonyms is a curated business-term dictionary; only the first
// synonym of a matched term is appended during expansion.
var defaultSynonyms = map[string][]string{
	"price":    {"cost", "fee"},
	"pricing":  {"cost"},
	"cost":     {"price"},
	"buy":      {"purchase"},
	"purchase": {"buy"},
	"help":     {"support"},
	"support":  {"assistance"},
	"issue":    {"problem"},
	"problem":  {"issue"},
	"feature":  {"capability"},
	"features": {"capabilities"},
	"company":  {"business"},
	"product":  {"item"},
	"service":  {"offering"},
	"contact":  {"reach"},
	"fast":     {"quick"},
	"cheap":    {"affordable"},
	"best":     {"top"},
}

// defaultIntentRules is the ordered intent classifier table. Confidence
// reflects pattern specificity; every rule scores above the 0.5
// general default. Keywords feed the intent-contextualized variation.
var defaultIntentRules = []config.IntentRule{
	{Intent: "pricing", Pattern: `\b(price|prices|pricing|cost|costs|fee|fees|rate|rates|charge|charges)\b|how much`, Confidence: 0.9, Keywords: "cost price fee rate"},
	{Intent: "comparison", Pattern: `\b(compare|comparison|vs|versus|difference|differences|better|best)\b`, Confidence: 0.85, Keywords: "compare difference options"},
	{Intent: "support", Pattern: `\b(help|support|issue|issues|problem|problems|trouble|error|errors|broken|fix)\b`, Confidence: 0.85, Keywords: "help support troubleshooting"},
	{Intent: "contact", Pattern: `\b(contact|email|phone|call|reach|address|location)\b`, Confidence: 0.85, Keywords: "contact email phone"},
	{Intent: "purchase", Pattern: `\b(buy|purchase|order|subscribe|subscription|trial|demo)\b|sign up|get started`, Confidence: 0.8, Keywords: "buy purchase order"},
	{Intent: "features", Pattern: `\b(feature|features|capability|capabilities|function|functions|functionality)\b|what can|what does`, Confidence: 0.8, Keywords: "features capabilities functions"},
	{Intent: "information", Pattern: `what is|what are|how does|how do|how to|tell me|explain|describe`, Confidence: 0.7, Keywords: "information details overview"},
}
