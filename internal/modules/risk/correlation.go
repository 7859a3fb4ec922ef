package risk

import (
	"fmt"

	"github.com/aristath/riskwatch/pkg/formulas"
)

// Matrix is a symmetric Pearson correlation matrix. Values[i][j] is the
// correlation between Tickers[i] and Tickers[j].
type Matrix struct {
	Tickers []string    `json:"tickers"`
	Values  [][]float64 `json:"values"`
}

// Empty reports whether the matrix has no entries
func (m Matrix) Empty() bool { return len(m.Tickers) == 0 }

// CorrelationMatrix computes the pairwise correlation matrix of a
// returns table. Tables with fewer than two columns produce an empty
// matrix.
func CorrelationMatrix(table ReturnsTable) Matrix {
	if table.Empty() || len(table.Tickers) < 2 {
		return Matrix{}
	}

	n := len(table.Tickers)
	m := Matrix{
		Tickers: append([]string(nil), table.Tickers...),
		Values:  make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := formulas.Correlation(table.Columns[i], table.Columns[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// noPairSentinel marks "no valid pair found" during the upper-triangle
// scan. NaN correlations never beat it.
const noPairSentinel = -999.0

// TopCorrelatedPair describes the most correlated ticker pair in
// Japanese, excluding self-correlation. Returns "" when the matrix has
// fewer than two tickers or no comparable pair.
func TopCorrelatedPair(m Matrix) string {
	if len(m.Tickers) < 2 {
		return ""
	}
	bestI, bestJ := -1, -1
	best := noPairSentinel
	for i := 0; i < len(m.Tickers); i++ {
		for j := i + 1; j < len(m.Tickers); j++ {
			if m.Values[i][j] > best {
				bestI, bestJ = i, j
				best = m.Values[i][j]
			}
		}
	}
	if best == noPairSentinel {
		return ""
	}
	return fmt.Sprintf("%s と %s の相関が最も高い (r = %.2f)", m.Tickers[bestI], m.Tickers[bestJ], best)
}
