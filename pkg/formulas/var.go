package formulas

import "sort"

// Percentile returns the pct-th percentile (0-100) of data using linear
// interpolation between closest ranks (the R type-7 convention).
func Percentile(data []float64, pct float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := pct / 100 * float64(len(sorted)-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// PortfolioSeries combines per-asset return columns into a single weighted
// portfolio return series. All columns must have the same length; weights
// are applied positionally. Returns an empty series when there is nothing
// to combine.
func PortfolioSeries(columns [][]float64, weights []float64) []float64 {
	if len(columns) == 0 || len(columns[0]) == 0 {
		return []float64{}
	}

	series := make([]float64, len(columns[0]))
	for j, col := range columns {
		if j >= len(weights) {
			break
		}
		w := weights[j]
		for i, r := range col {
			series[i] += r * w
		}
	}
	return series
}

// HistoricalVaR returns the historical-simulation Value at Risk of a return
// series at the given confidence level: the (1-confidence)*100 percentile.
// A negative result is a loss. Empty input yields 0.
func HistoricalVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return Percentile(returns, (1-confidence)*100)
}
