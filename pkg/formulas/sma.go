package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMASeries calculates a rolling simple moving average aligned with the
// input series. Entries before the first complete window are NaN, matching
// the tri-valued (present/absent) convention used by the signal engine.
func SMASeries(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(values) < window {
		return out
	}

	sma := talib.Sma(values, window)
	copy(out[window-1:], sma[window-1:])
	return out
}
