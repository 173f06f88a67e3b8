package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Pricing", Document{Title: "Pricing", Source: "docs"}.DisplayTitle())
	assert.Equal(t, "docs", Document{Source: "docs"}.DisplayTitle())
	assert.Equal(t, "unknown", Document{}.DisplayTitle())
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "docs", Document{Source: "docs"}.SourceName())
	assert.Equal(t, "unknown", Document{}.SourceName())
}

func TestLastModified(t *testing.T) {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var m *Metadata
	assert.True(t, m.LastModified().IsZero())
	assert.True(t, (&Metadata{}).LastModified().IsZero())
	assert.Equal(t, created, (&Metadata{CreatedAt: created}).LastModified())
	assert.Equal(t, updated, (&Metadata{CreatedAt: created, UpdatedAt: updated}).LastModified())
}
