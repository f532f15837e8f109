package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMMRPureSimilarityWhenLambdaOne(t *testing.T) {
	candidates := []Candidate{
		{Vector: []float32{1, 0}, Score: 0.9},
		{Vector: []float32{1, 0.01}, Score: 0.8},
		{Vector: []float32{0, 1}, Score: 0.7},
	}
	picked := MaximalMarginalRelevance(candidates, 3, 1)
	assert.Equal(t, []int{0, 1, 2}, picked)
}

func TestMMRPenalizesRedundantCandidates(t *testing.T) {
	// Candidate 1 duplicates candidate 0's direction; candidate 2 is
	// orthogonal and should win the second slot despite a lower score.
	candidates := []Candidate{
		{Vector: []float32{1, 0}, Score: 0.90},
		{Vector: []float32{1, 0}, Score: 0.89},
		{Vector: []float32{0, 1}, Score: 0.50},
	}
	picked := MaximalMarginalRelevance(candidates, 2, 0.5)
	assert.Equal(t, []int{0, 2}, picked)
}

func TestMMRTiesBreakByRank(t *testing.T) {
	candidates := []Candidate{
		{Vector: []float32{1, 0, 0}, Score: 0.8},
		{Vector: []float32{0, 1, 0}, Score: 0.8},
		{Vector: []float32{0, 0, 1}, Score: 0.8},
	}
	picked := MaximalMarginalRelevance(candidates, 3, 1)
	assert.Equal(t, []int{0, 1, 2}, picked)
}

func TestMMRClampsKToCandidateCount(t *testing.T) {
	candidates := []Candidate{
		{Vector: []float32{1, 0}, Score: 0.9},
		{Vector: []float32{0, 1}, Score: 0.8},
	}
	picked := MaximalMarginalRelevance(candidates, 10, 0.5)
	assert.Len(t, picked, 2)
}

func TestMMREmptyInput(t *testing.T) {
	assert.Nil(t, MaximalMarginalRelevance(nil, 5, 0.5))
	assert.Nil(t, MaximalMarginalRelevance([]Candidate{{Score: 1}}, 0, 0.5))
}

func TestCosine(t *testing.T) {
	require.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	require.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 3}), 1e-9)
	require.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	require.Equal(t, 0.0, Cosine(nil, []float32{1}))
	require.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
}
