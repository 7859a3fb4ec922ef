package returns

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/domain"
	"github.com/aristath/riskwatch/pkg/formulas"
)

const (
	// thinCoverageMultiplier widens the scenario spread when fewer than
	// three analysts cover a name.
	thinCoverageMultiplier = 1.3
	thinCoverageCount      = 3

	// cagrCap bounds every reported scenario value to ±50% a year.
	cagrCap = 0.50

	historyPeriod  = "2y"
	minDailyCloses = 24
)

// Estimate is a three-scenario annualized return projection
type Estimate struct {
	Ticker       string   `json:"ticker"`
	Name         string   `json:"name"`
	IsETF        bool     `json:"is_etf"`
	Method       string   `json:"method"`
	Optimistic   float64  `json:"optimistic"`
	Base         float64  `json:"base"`
	Pessimistic  float64  `json:"pessimistic"`
	CurrentPrice *float64 `json:"current_price"`
	Note         string   `json:"note"`
}

// Estimator projects annualized returns: analyst price targets for
// equities, trailing CAGR for ETFs.
type Estimator struct {
	client domain.MarketData
	log    zerolog.Logger
}

// NewEstimator creates a new return estimator.
func NewEstimator(client domain.MarketData, log zerolog.Logger) *Estimator {
	return &Estimator{
		client: client,
		log:    log.With().Str("component", "returns").Logger(),
	}
}

// Estimate produces the three-scenario projection for one ticker.
// Missing upstream data yields a zero estimate with an explanatory
// note, never an error.
func (e *Estimator) Estimate(ticker string) Estimate {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	info, err := e.client.GetTickerInfo(ticker)
	if err != nil || info == nil {
		e.log.Warn().Str("ticker", ticker).Err(err).Msg("Ticker info unavailable")
		info = &domain.TickerInfo{Symbol: ticker}
	}
	name := info.DisplayName()
	price := info.Price()

	if domain.IsETF(info) {
		return e.estimateETF(ticker, name, price)
	}
	return e.estimateEquity(ticker, name, price)
}

// estimateEquity derives scenarios from analyst price targets
func (e *Estimator) estimateEquity(ticker, name string, price *float64) Estimate {
	result := Estimate{
		Ticker:       ticker,
		Name:         name,
		Method:       "analyst",
		CurrentPrice: price,
	}

	var high, mean, low *float64
	analystCount := 0
	if targets, err := e.client.GetAnalystData(ticker); err == nil && targets != nil {
		high, mean, low = targets.TargetHigh, targets.TargetMean, targets.TargetLow
		analystCount = targets.AnalystCount
	}

	if price == nil || *price == 0 || mean == nil {
		result.Note = "アナリスト目標株価データなし"
		return result
	}

	base := (*mean - *price) / *price

	var optimistic, pessimistic float64
	note := ""
	if high == nil || low == nil || (*high == *low && *low == *mean) {
		spread := math.Abs(base) * 0.3
		if base == 0 {
			spread = 0.05
		}
		optimistic = base + spread
		pessimistic = base - spread
		note = "目標株価 High/Low が取得できなかったため自動スプレッドを適用"
	} else {
		optimistic = (*high - *price) / *price
		pessimistic = (*low - *price) / *price
	}

	if analystCount < thinCoverageCount {
		mid := (optimistic + pessimistic) / 2
		half := (optimistic - pessimistic) / 2 * thinCoverageMultiplier
		optimistic = mid + half
		pessimistic = mid - half
		note += fmt.Sprintf("（アナリスト%d名のため±スプレッドを%g倍に拡張）", analystCount, thinCoverageMultiplier)
	}

	result.Optimistic = round4(optimistic)
	result.Base = round4(base)
	result.Pessimistic = round4(pessimistic)
	result.Note = strings.TrimSpace(note)
	return result
}

// estimateETF derives scenarios from the trailing two-year CAGR with a
// one-sigma band.
func (e *Estimator) estimateETF(ticker, name string, price *float64) Estimate {
	result := Estimate{
		Ticker:       ticker,
		Name:         name,
		IsETF:        true,
		Method:       "cagr",
		CurrentPrice: price,
	}

	bars, err := e.client.GetHistory(ticker, historyPeriod)
	if err != nil || len(bars) == 0 {
		result.Note = "価格履歴データなし"
		return result
	}

	closes := domain.Closes(bars)
	if len(closes) < minDailyCloses {
		result.Note = "価格履歴が24ヶ月未満のため試算不可"
		return result
	}

	monthly := monthEndCloses(bars)
	monthlyReturns := formulas.CalculateReturns(monthly)
	if len(monthlyReturns) < 2 {
		result.Note = "月次リターンデータ不足"
		return result
	}

	nMonths := len(monthlyReturns)
	cagr := formulas.CalculateCAGR(monthlyReturns)
	sigma := formulas.StdDev(monthlyReturns) * math.Sqrt(12)

	result.Optimistic = round4(clamp(cagr + sigma))
	result.Base = round4(clamp(cagr))
	result.Pessimistic = round4(clamp(cagr - sigma))
	result.Note = fmt.Sprintf("過去%dヶ月の月次リターンから CAGR を算出。標準偏差 %.1f%% でシナリオ分岐。", nMonths, sigma*100)
	return result
}

// monthEndCloses reduces daily bars to the last usable close of each
// calendar month, in chronological order.
func monthEndCloses(bars []domain.PriceBar) []float64 {
	closes := make([]float64, 0)
	lastMonth := ""
	for _, b := range bars {
		if b.Close == 0 {
			continue
		}
		month := b.Date.Format("2006-01")
		if month == lastMonth {
			closes[len(closes)-1] = b.Close
			continue
		}
		closes = append(closes, b.Close)
		lastMonth = month
	}
	return closes
}

func clamp(v float64) float64 {
	return math.Max(math.Min(v, cagrCap), -cagrCap)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
