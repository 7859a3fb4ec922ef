package scenario

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/domain"
	"github.com/aristath/riskwatch/internal/modules/risk"
	"github.com/aristath/riskwatch/internal/modules/shocks"
)

// Service runs stress-test scenarios over a set of tickers
type Service struct {
	client domain.MarketData
	risk   *risk.Service
	log    zerolog.Logger
}

// NewService creates a new scenario orchestrator.
func NewService(client domain.MarketData, riskSvc *risk.Service, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		risk:   riskSvc,
		log:    log.With().Str("component", "scenario").Logger(),
	}
}

// Run executes the named scenario for a list of tickers.
//
// Weights are optional market values or ratios; they are used as given
// only when one is present per ticker, otherwise the run is
// equal-weighted. Input errors (unknown scenario, empty ticker list)
// come back in the result's Error field with nothing computed; data
// problems per ticker degrade instead of aborting.
func (s *Service) Run(tickers []string, scenarioKey string, scenarios domain.ScenarioTable, weights []float64) domain.ScenarioResult {
	def, ok := scenarios[scenarioKey]
	if !ok {
		return domain.ScenarioResult{Error: fmt.Sprintf("シナリオ '%s' が見つかりません。", scenarioKey)}
	}
	if len(tickers) == 0 {
		return domain.ScenarioResult{Error: "ティッカーが指定されていません。"}
	}

	impacts := make([]domain.TickerImpact, 0, len(tickers))
	impactValues := make([]float64, 0, len(tickers))

	for _, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))

		info, err := s.client.GetTickerInfo(ticker)
		if err != nil || info == nil {
			s.log.Warn().Str("ticker", ticker).Err(err).Msg("Ticker info unavailable")
			info = &domain.TickerInfo{Symbol: ticker}
		}
		isETF := domain.IsETF(info)

		impact := computeImpact(info, isETF, def)
		impactValues = append(impactValues, impact)

		impacts = append(impacts, domain.TickerImpact{
			Ticker:       ticker,
			Name:         info.DisplayName(),
			Sector:       info.SectorName("-"),
			IsETF:        isETF,
			ImpactPct:    round4(impact),
			ShockApplied: describeShock(info, isETF, def),
		})
	}

	// Worst impact first.
	sort.SliceStable(impacts, func(i, j int) bool {
		return impacts[i].ImpactPct < impacts[j].ImpactPct
	})

	w := weights
	if len(w) != len(tickers) || len(w) == 0 {
		w = make([]float64, len(tickers))
		for i := range w {
			w[i] = 1.0
		}
	}
	hhi := risk.HHI(w)

	totalW := 0.0
	for _, wi := range w {
		totalW += wi
	}
	portfolioImpact := 0.0
	if totalW > 0 {
		for i, impact := range impactValues {
			portfolioImpact += impact * w[i]
		}
		portfolioImpact /= totalW
	}

	result := domain.ScenarioResult{
		ScenarioName:        def.Name,
		ScenarioDescription: def.Description,
		HHI:                 round4(hhi),
		HHILabel:            risk.ClassifyHHI(hhi),
		TickerImpacts:       impacts,
		PortfolioImpact:     round4(portfolioImpact),
	}
	if result.ScenarioName == "" {
		result.ScenarioName = scenarioKey
	}

	// Correlation and VaR are best effort: a failed fetch leaves the
	// zero values in place.
	returns := s.risk.FetchReturns(tickers)
	if !returns.Empty() {
		aligned := risk.AlignWeights(tickers, returns.Tickers, w)
		result.VaR95 = risk.VaR(returns, aligned, 0.95)
		result.VaR99 = risk.VaR(returns, aligned, 0.99)
		result.CorrelationSummary = risk.TopCorrelatedPair(risk.CorrelationMatrix(returns))
	}

	return result
}

// computeImpact estimates the scenario's return impact for one asset.
// ETF override shocks apply as-is; everything else walks the shock
// preference list, preferring specific keys over the generic equity
// fallback, and scales by the sector multiplier.
func computeImpact(info *domain.TickerInfo, isETF bool, def domain.ScenarioDefinition) float64 {
	if isETF {
		if class := shocks.ETFClass(info); class != "" {
			if shock, ok := def.ETFOverrides[class]; ok {
				return shock
			}
		}
	}

	bestValue := 0.0
	bestKey := ""
	for _, sw := range shocks.Profile(info, isETF) {
		shock, ok := def.Shocks[sw.Key]
		if !ok {
			continue
		}
		if bestKey == "" || (sw.Key != "equity" && bestKey == "equity") {
			bestValue = shock
			bestKey = sw.Key
		}
	}
	if bestKey == "" {
		if shock, ok := def.Shocks["equity"]; ok {
			bestValue = shock
		} else if shock, ok := def.Shocks["other_equity"]; ok {
			bestValue = shock
		}
	}

	multiplier := 1.0
	if m, ok := def.SectorMultipliers[info.SectorName("")]; ok {
		multiplier = m
	}
	return bestValue * multiplier
}

// describeShock labels the shock a ticker would receive
func describeShock(info *domain.TickerInfo, isETF bool, def domain.ScenarioDefinition) string {
	if isETF {
		if class := shocks.ETFClass(info); class != "" {
			if _, ok := def.ETFOverrides[class]; ok {
				return fmt.Sprintf("ETF(%s)", class)
			}
		}
	}
	for _, sw := range shocks.Profile(info, isETF) {
		if _, ok := def.Shocks[sw.Key]; ok && sw.Key != "equity" {
			return sw.Key
		}
	}
	return "equity"
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
