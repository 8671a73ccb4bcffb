package contractqa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankPicksHighestCosine(t *testing.T) {
	query := []float32{0, 1}
	candidates := [][]float32{
		{1, 0},
		{0.6, 0.8},
		{-1, 0},
	}

	idx, score, err := Rank(query, candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 0.8, score, 1e-6)
}

func TestRankTieBreakLowestIndex(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{0, 1},
		{3, 0},
		{5, 0},
	}

	idx, _, err := Rank(query, candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "equal maxima must resolve to the first one")
}

func TestRankSingletonAlwaysZero(t *testing.T) {
	for _, query := range [][]float32{{1, 0}, {-1, 0}, {0, 0}, {3, -7}} {
		idx, _, err := Rank(query, [][]float32{{0.2, 0.9}})
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	}
}

func TestRankEmptyCorpus(t *testing.T) {
	idx, _, err := Rank([]float32{1, 0}, nil)
	assert.True(t, errors.Is(err, ErrEmptyCorpus))
	assert.Equal(t, 0, idx)

	_, _, err = Rank([]float32{1, 0}, [][]float32{})
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	for _, pair := range [][2][]float32{
		{{0, 0}, {1, 1}},
		{{1, 1}, {0, 0}},
	} {
		score, err := CosineSimilarity(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	}

	score, err := CosineSimilarity([]float32{2, 0}, []float32{5, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 0, 0}, []float32{1, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, _, err = Rank([]float32{1, 0}, [][]float32{{1, 0}, {1, 0, 0}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
