package schema

import "time"

// Document represents a passage of text eligible for retrieval.
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Title    string         `json:"title,omitempty"`
	Source   string         `json:"source,omitempty"`
	Metadata *Metadata      `json:"metadata,omitempty"`
	Vector   []float32      `json:"vector,omitempty"`
}

// Metadata carries typed timestamps used for recency scoring plus an
// open extension map for anything else a retriever backend attaches.
type Metadata struct {
	CreatedAt time.Time         `json:"created_at,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// LastModified returns the most recent known timestamp, preferring
// UpdatedAt over CreatedAt. The zero time means "unknown".
func (m *Metadata) LastModified() time.Time {
	if m == nil {
		return time.Time{}
	}
	if !m.UpdatedAt.IsZero() {
		return m.UpdatedAt
	}
	return m.CreatedAt
}

// SearchResult is a candidate passage with its similarity score.
// Scores are expected in [0,1] but may exceed that range from noisy
// upstream backends; consumers clamp before use.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// DisplayTitle returns the display label for a document, falling back to the
// source identifier when no explicit title is set.
func (d Document) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	if d.Source != "" {
		return d.Source
	}
	return "unknown"
}

// SourceName returns the originating source identifier, "unknown" if absent.
func (d Document) SourceName() string {
	if d.Source == "" {
		return "unknown"
	}
	return d.Source
}

// SearchOptions controls a similarity search call.
type SearchOptions struct {
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold"`
}
