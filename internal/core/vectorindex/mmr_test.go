package vectorindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(id string, score float64, vec []float32) candidate {
	return candidate{hit: Hit{ID: id, Score: score}, vec: vec}
}

func TestRerank_KLargerThanCandidates(t *testing.T) {
	cands := []candidate{
		cand("a", 0.9, []float32{1, 0}),
		cand("b", 0.5, []float32{0, 1}),
	}

	hits := rerank(cands, 10, 0.5)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
}

func TestRerank_TieBrokenByRawSimilarity(t *testing.T) {
	// Orthogonal candidates with lambda 0: every MMR score is 0 once one is
	// selected, so the tie must fall to the higher raw similarity.
	cands := []candidate{
		cand("high", 0.8, []float32{1, 0, 0}),
		cand("low", 0.2, []float32{0, 1, 0}),
		cand("mid", 0.5, []float32{0, 0, 1}),
	}

	hits := rerank(cands, 3, 0)
	require.Len(t, hits, 3)
	assert.Equal(t, "high", hits[0].ID)
	assert.Equal(t, "mid", hits[1].ID)
	assert.Equal(t, "low", hits[2].ID)
}

func TestRerank_NegativeRedundancyRewarded(t *testing.T) {
	// The redundancy term is the signed maximum similarity to the selected
	// set. A candidate anti-similar to everything picked so far must beat a
	// merely orthogonal one even when its query similarity is lower:
	// with lambda 0.5, anti scores 0.5*0.5 - 0.5*(-1) = 0.75 against
	// ortho's 0.5*0.9 - 0.5*0 = 0.45.
	cands := []candidate{
		cand("top", 1.0, []float32{1, 0}),
		cand("ortho", 0.9, []float32{0, 1}),
		cand("anti", 0.5, []float32{-1, 0}),
	}

	hits := rerank(cands, 2, 0.5)
	require.Len(t, hits, 2)
	assert.Equal(t, "top", hits[0].ID)
	assert.Equal(t, "anti", hits[1].ID)
}

func TestRerank_Empty(t *testing.T) {
	assert.Nil(t, rerank(nil, 5, 0.5))
	assert.Nil(t, rerank([]candidate{cand("a", 1, []float32{1})}, 0, 0.5))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 3}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Degenerate inputs.
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}
