package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidentic/ragcore/schema"
)

func res(id string, score float64) schema.SearchResult {
	return schema.SearchResult{Document: schema.Document{ID: id, Content: id}, Score: score}
}

func TestNewStrategy(t *testing.T) {
	assert.Equal(t, "max", NewStrategy("", 0).Name())
	assert.Equal(t, "max", NewStrategy("max", 0).Name())
	assert.Equal(t, "max", NewStrategy("unknown", 0).Name())
	assert.Equal(t, "rrf", NewStrategy("RRF", 0).Name())

	rrf, ok := NewStrategy("rrf", 0).(*RRFStrategy)
	require.True(t, ok)
	assert.Equal(t, 60, rrf.K)
}

func TestMaxScoreKeepsBestPerDocument(t *testing.T) {
	s := &MaxScoreStrategy{}

	fused := s.Fuse([][]schema.SearchResult{
		{res("a", 0.6), res("b", 0.9)},
		{res("a", 0.8), res("c", 0.7)},
	})

	require.Len(t, fused, 3)
	assert.Equal(t, "b", fused[0].Document.ID)
	assert.Equal(t, 0.9, fused[0].Score)
	assert.Equal(t, "a", fused[1].Document.ID)
	assert.Equal(t, 0.8, fused[1].Score)
	assert.Equal(t, "c", fused[2].Document.ID)
}

func TestMaxScoreSkipsEmptyIDs(t *testing.T) {
	s := &MaxScoreStrategy{}

	fused := s.Fuse([][]schema.SearchResult{
		{res("", 0.99), res("a", 0.5)},
	})
	require.Len(t, fused, 1)
	assert.Equal(t, "a", fused[0].Document.ID)
}

func TestMaxScoreEmptyInput(t *testing.T) {
	s := &MaxScoreStrategy{}
	assert.Empty(t, s.Fuse(nil))
	assert.Empty(t, s.Fuse([][]schema.SearchResult{{}, {}}))
}

func TestRRFAccumulatesAcrossLists(t *testing.T) {
	s := &RRFStrategy{K: 60}

	fused := s.Fuse([][]schema.SearchResult{
		{res("a", 0.9), res("b", 0.8)},
		{res("b", 0.7), res("c", 0.6)},
	})

	require.Len(t, fused, 3)
	// b appears at rank 2 and rank 1; a and c once each.
	assert.Equal(t, "b", fused[0].Document.ID)
	assert.InDelta(t, 1.0/62+1.0/61, fused[0].Score, 1e-9)
	assert.Equal(t, "a", fused[1].Document.ID)
	assert.InDelta(t, 1.0/61, fused[1].Score, 1e-9)
	assert.Equal(t, "c", fused[2].Document.ID)
}

func TestRRFTieBreaksByFirstSeen(t *testing.T) {
	s := &RRFStrategy{K: 60}

	fused := s.Fuse([][]schema.SearchResult{
		{res("x", 0.9)},
		{res("y", 0.9)},
	})

	require.Len(t, fused, 2)
	assert.Equal(t, "x", fused[0].Document.ID)
	assert.Equal(t, "y", fused[1].Document.ID)
}

func TestRRFDefaultsKWhenUnset(t *testing.T) {
	s := &RRFStrategy{}

	fused := s.Fuse([][]schema.SearchResult{{res("a", 0.9)}})
	require.Len(t, fused, 1)
	assert.InDelta(t, 1.0/61, fused[0].Score, 1e-9)
}
