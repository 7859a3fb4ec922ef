package formulas

import "math"

// CalculateCAGR annualizes a series of monthly returns into a compound
// annual growth rate.
//
// Formula: ((1+r1)*(1+r2)*...*(1+rN))^(12/N) - 1
//
// A non-positive total compounded return collapses to -0.99 instead of
// producing NaN from a fractional power of a negative base.
func CalculateCAGR(monthlyReturns []float64) float64 {
	if len(monthlyReturns) == 0 {
		return 0.0
	}

	total := 1.0
	for _, r := range monthlyReturns {
		total *= 1 + r
	}
	if total <= 0 {
		return -0.99
	}

	return math.Pow(total, 12/float64(len(monthlyReturns))) - 1
}
