package domain

import "time"

// PriceBar represents one period of OHLCV price history
type PriceBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	AdjClose float64   `json:"adj_close"`
}

// Closes extracts the closing prices of a bar series, skipping unusable
// entries (zero closes are Yahoo's encoding for missing data).
func Closes(bars []PriceBar) []float64 {
	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		if b.Close != 0 {
			closes = append(closes, b.Close)
		}
	}
	return closes
}

// TickerInfo holds quote metadata for one ticker. Every field except the
// symbol is optional: the market-data source frequently omits them and the
// engine degrades instead of failing.
type TickerInfo struct {
	Symbol             string   `json:"symbol"`
	LongName           *string  `json:"long_name,omitempty"`
	ShortName          *string  `json:"short_name,omitempty"`
	Sector             *string  `json:"sector,omitempty"`
	Industry           *string  `json:"industry,omitempty"`
	QuoteType          string   `json:"quote_type,omitempty"`
	CurrentPrice       *float64 `json:"current_price,omitempty"`
	RegularMarketPrice *float64 `json:"regular_market_price,omitempty"`
	ReturnOnEquity     *float64 `json:"return_on_equity,omitempty"`
	RevenueGrowth      *float64 `json:"revenue_growth,omitempty"`
	OperatingMargins   *float64 `json:"operating_margins,omitempty"`
	Country            *string  `json:"country,omitempty"`
	Exchange           *string  `json:"exchange,omitempty"`
}

// DisplayName returns the long name, falling back to the short name and
// finally the symbol itself.
func (i *TickerInfo) DisplayName() string {
	if i.LongName != nil && *i.LongName != "" {
		return *i.LongName
	}
	if i.ShortName != nil && *i.ShortName != "" {
		return *i.ShortName
	}
	return i.Symbol
}

// Price returns the current price, falling back to the regular market
// price. A zero current price counts as absent.
func (i *TickerInfo) Price() *float64 {
	if i.CurrentPrice != nil && *i.CurrentPrice != 0 {
		return i.CurrentPrice
	}
	return i.RegularMarketPrice
}

// SectorName returns the sector, or fallback when it is absent or blank.
func (i *TickerInfo) SectorName(fallback string) string {
	if i.Sector != nil && *i.Sector != "" {
		return *i.Sector
	}
	return fallback
}

// AnalystTargets holds analyst price-target data for one ticker
type AnalystTargets struct {
	Symbol       string   `json:"symbol"`
	TargetHigh   *float64 `json:"target_high,omitempty"`
	TargetMean   *float64 `json:"target_mean,omitempty"`
	TargetLow    *float64 `json:"target_low,omitempty"`
	AnalystCount int      `json:"analyst_count"`
}

// CrossSignal describes a moving-average crossover state
type CrossSignal string

const (
	CrossGolden CrossSignal = "golden"
	CrossDead   CrossSignal = "dead"
	CrossNone   CrossSignal = "none"
)

// TechnicalSignals is a per-ticker snapshot of technical indicators.
// Indicator fields are nil when there is not enough history to compute
// them; they are never defaulted to zero.
type TechnicalSignals struct {
	CurrentPrice    *float64    `json:"current_price"`
	SMA50           *float64    `json:"sma50"`
	SMA200          *float64    `json:"sma200"`
	RSI             *float64    `json:"rsi"`
	Cross           CrossSignal `json:"cross"`
	AboveSMA50      bool        `json:"above_sma50"`
	AboveSMA200     bool        `json:"above_sma200"`
	SMA50NearSMA200 bool        `json:"sma50_near_sma200"`
}

// ShockWeight pairs a scenario shock key with a multiplier weight
type ShockWeight struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
}

// ShockProfile is the ordered shock-key preference list for one asset:
// most specific category first, the generic equity fallback last. The
// order is data, never map iteration order.
type ShockProfile []ShockWeight

// Keys returns the shock keys in preference order
func (p ShockProfile) Keys() []string {
	keys := make([]string, len(p))
	for i, w := range p {
		keys[i] = w.Key
	}
	return keys
}

// ScenarioDefinition describes one hypothetical market scenario
type ScenarioDefinition struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Shocks            map[string]float64 `json:"shocks"`
	ETFOverrides      map[string]float64 `json:"etf_overrides"`
	SectorMultipliers map[string]float64 `json:"sector_multipliers"`
}

// ScenarioTable maps scenario keys to their definitions
type ScenarioTable map[string]ScenarioDefinition

// TickerImpact is the estimated effect of a scenario on a single ticker
type TickerImpact struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`
	IsETF        bool    `json:"is_etf"`
	ImpactPct    float64 `json:"impact_pct"`
	ShockApplied string  `json:"shock_applied"`
}

// ScenarioResult aggregates a full stress-test run. TickerImpacts is
// sorted worst-first; Error is set only for input errors, in which case
// no other field is populated.
type ScenarioResult struct {
	ScenarioName        string         `json:"scenario_name"`
	ScenarioDescription string         `json:"scenario_description"`
	HHI                 float64        `json:"hhi"`
	HHILabel            string         `json:"hhi_label"`
	TickerImpacts       []TickerImpact `json:"ticker_impacts"`
	PortfolioImpact     float64        `json:"portfolio_impact"`
	VaR95               float64        `json:"var_95"`
	VaR99               float64        `json:"var_99"`
	CorrelationSummary  string         `json:"correlation_summary"`
	Error               string         `json:"error,omitempty"`
}
