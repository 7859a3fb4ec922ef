package formulas

import "math"

// RSISeries calculates the Relative Strength Index (0-100) for a closing
// price series using exponentially weighted average gains and losses with a
// center of mass of window-1.
//
// The output is aligned with the input. Entries are NaN until `window` price
// changes have been observed, and at any point where the average loss is
// exactly zero (the ratio is undefined there, not 100).
func RSISeries(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(closes) < window+1 {
		return out
	}

	decay := 1.0 - 1.0/float64(window)
	var gainSum, lossSum, weight float64

	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		var gain, loss float64
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		gainSum = gainSum*decay + gain
		lossSum = lossSum*decay + loss
		weight = weight*decay + 1

		if i < window {
			continue
		}
		avgLoss := lossSum / weight
		if avgLoss == 0 {
			continue
		}
		avgGain := gainSum / weight
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}

	return out
}
