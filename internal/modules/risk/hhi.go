package risk

// HHI classification thresholds
const (
	hhiLowCeiling = 0.15
	hhiMidCeiling = 0.25
)

const (
	labelLow  = "低集中 (分散良好)"
	labelMid  = "中集中"
	labelHigh = "高集中 (要注意)"
)

// HHI calculates the Herfindahl-Hirschman concentration index from a
// list of weights. Weights can be raw amounts (market values) or
// ratios; they are normalized before squaring. Returns 0 for empty or
// non-positive input. Only positive weights contribute to the sum; the
// normalization total includes every weight.
func HHI(weights []float64) float64 {
	if len(weights) == 0 {
		return 0.0
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0.0
	}
	hhi := 0.0
	for _, w := range weights {
		if w > 0 {
			ratio := w / total
			hhi += ratio * ratio
		}
	}
	return hhi
}

// ClassifyHHI returns the Japanese concentration label for an HHI value
func ClassifyHHI(hhi float64) string {
	if hhi < hhiLowCeiling {
		return labelLow
	}
	if hhi < hhiMidCeiling {
		return labelMid
	}
	return labelHigh
}
