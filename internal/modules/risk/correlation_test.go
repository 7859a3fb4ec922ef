package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationMatrix(t *testing.T) {
	table := ReturnsTable{
		Tickers: []string{"AAA", "BBB", "CCC"},
		Columns: [][]float64{
			{0.01, 0.02, -0.01, 0.03},
			{0.02, 0.04, -0.02, 0.06},   // perfectly correlated with AAA
			{-0.01, -0.02, 0.01, -0.03}, // perfectly anti-correlated
		},
	}

	m := CorrelationMatrix(table)
	require.Equal(t, []string{"AAA", "BBB", "CCC"}, m.Tickers)

	assert.InDelta(t, 1.0, m.Values[0][0], 1e-9)
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-9)
	assert.InDelta(t, -1.0, m.Values[0][2], 1e-9)
	assert.InDelta(t, m.Values[0][1], m.Values[1][0], 1e-12, "matrix is symmetric")
}

func TestCorrelationMatrix_NeedsTwoColumns(t *testing.T) {
	table := ReturnsTable{
		Tickers: []string{"AAA"},
		Columns: [][]float64{{0.01, 0.02}},
	}
	assert.True(t, CorrelationMatrix(table).Empty())
	assert.True(t, CorrelationMatrix(ReturnsTable{}).Empty())
}

func TestTopCorrelatedPair(t *testing.T) {
	m := Matrix{
		Tickers: []string{"AAA", "BBB", "CCC"},
		Values: [][]float64{
			{1.0, 0.42, 0.93},
			{0.42, 1.0, -0.10},
			{0.93, -0.10, 1.0},
		},
	}
	assert.Equal(t, "AAA と CCC の相関が最も高い (r = 0.93)", TopCorrelatedPair(m))
}

func TestTopCorrelatedPair_Empty(t *testing.T) {
	assert.Equal(t, "", TopCorrelatedPair(Matrix{}))

	one := Matrix{Tickers: []string{"AAA"}, Values: [][]float64{{1.0}}}
	assert.Equal(t, "", TopCorrelatedPair(one))
}

func TestTopCorrelatedPair_UndefinedCorrelations(t *testing.T) {
	nan := math.NaN()
	m := Matrix{
		Tickers: []string{"AAA", "BBB"},
		Values: [][]float64{
			{1.0, nan},
			{nan, 1.0},
		},
	}
	assert.Equal(t, "", TopCorrelatedPair(m))
}
