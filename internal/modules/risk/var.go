package risk

import (
	"math"

	"github.com/aristath/riskwatch/pkg/formulas"
)

// VaR computes historical-simulation value at risk for a portfolio of
// the table's tickers at the given confidence level (0.95 for 95% VaR).
// The result is a negative decimal (-0.125 means a 12.5% loss) rounded
// to four decimals, or 0 when the table is empty.
//
// Weights may be raw amounts; they are normalized over the full input
// before being fitted to the table's column count, mirroring the
// normalize-then-truncate order of the weights contract.
func VaR(table ReturnsTable, weights []float64, confidence float64) float64 {
	if table.Empty() {
		return 0.0
	}
	w := fitWeights(weights, len(table.Tickers))
	portfolio := formulas.PortfolioSeries(table.Columns, w)
	return round4(formulas.HistoricalVaR(portfolio, confidence))
}

// fitWeights normalizes weights and fits them to n columns: normalize
// over the whole input when the total is positive (equal weights
// otherwise), then truncate to n and pad any shortfall with 1/n.
func fitWeights(weights []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	equal := func() []float64 {
		w := make([]float64, n)
		for i := range w {
			w[i] = 1.0 / float64(n)
		}
		return w
	}

	if weights == nil {
		return equal()
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return equal()
	}

	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / total
	}
	if len(normalized) > n {
		normalized = normalized[:n]
	}
	for len(normalized) < n {
		normalized = append(normalized, 1.0/float64(n))
	}
	return normalized
}

// AlignWeights maps per-ticker weights onto the subset of tickers that
// survived into the returns table, renormalizing over that subset.
// Tickers without a weight get zero; if nothing positive remains the
// result is equal-weighted.
func AlignWeights(tickers, available []string, weights []float64) []float64 {
	byTicker := make(map[string]float64, len(tickers))
	for i, t := range tickers {
		if i >= len(weights) {
			break
		}
		byTicker[t] = weights[i]
	}

	aligned := make([]float64, len(available))
	total := 0.0
	for i, t := range available {
		aligned[i] = byTicker[t]
		total += aligned[i]
	}
	if total <= 0 {
		for i := range aligned {
			aligned[i] = 1.0 / float64(len(available))
		}
		return aligned
	}
	for i := range aligned {
		aligned[i] /= total
	}
	return aligned
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
