package technicals

import (
	"math"

	"github.com/aristath/riskwatch/internal/domain"
	"github.com/aristath/riskwatch/pkg/formulas"
)

const (
	fastWindow = 50
	slowWindow = 200
	rsiWindow  = 14

	// SMA50 counts as "near" SMA200 when the gap is under 5%.
	nearThreshold = 0.05
)

// DetectCross detects the most recent golden or dead cross by comparing
// the last two points where both moving averages are defined.
func DetectCross(fast, slow []float64) domain.CrossSignal {
	n := len(fast)
	if len(slow) < n {
		n = len(slow)
	}

	curr, prev := -1, -1
	for i := n - 1; i >= 0; i-- {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) {
			continue
		}
		if curr == -1 {
			curr = i
			continue
		}
		prev = i
		break
	}
	if prev == -1 {
		return domain.CrossNone
	}

	prevAbove := fast[prev] > slow[prev]
	currAbove := fast[curr] > slow[curr]
	switch {
	case !prevAbove && currAbove:
		return domain.CrossGolden
	case prevAbove && !currAbove:
		return domain.CrossDead
	default:
		return domain.CrossNone
	}
}

// Compute derives the technical snapshot for a bar series. Indicators
// that cannot be computed from the available history stay nil and the
// boolean signals keep their zero values.
func Compute(bars []domain.PriceBar) domain.TechnicalSignals {
	signals := domain.TechnicalSignals{Cross: domain.CrossNone}

	prices := domain.Closes(bars)
	if len(prices) == 0 {
		return signals
	}

	current := prices[len(prices)-1]
	signals.CurrentPrice = &current

	sma50 := formulas.SMASeries(prices, fastWindow)
	sma200 := formulas.SMASeries(prices, slowWindow)

	if s50 := lastPoint(sma50); s50 != nil {
		signals.SMA50 = s50
		signals.AboveSMA50 = current > *s50
	}
	if s200 := lastPoint(sma200); s200 != nil {
		signals.SMA200 = s200
		signals.AboveSMA200 = current > *s200
	}

	if rsi := lastPoint(formulas.RSISeries(prices, rsiWindow)); rsi != nil {
		rounded := math.Round(*rsi*10) / 10
		signals.RSI = &rounded
	}

	if signals.SMA50 != nil && signals.SMA200 != nil {
		if s200 := *signals.SMA200; s200 != 0 {
			signals.SMA50NearSMA200 = math.Abs(*signals.SMA50-s200)/s200 < nearThreshold
		}
		signals.Cross = DetectCross(sma50, sma200)
	}

	return signals
}

// lastPoint returns the final value of a series, or nil when the series
// is empty or ends in NaN.
func lastPoint(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
