package scenario

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskwatch/internal/domain"
	"github.com/aristath/riskwatch/internal/modules/risk"
)

type stubClient struct {
	infos     map[string]*domain.TickerInfo
	histories map[string][]domain.PriceBar
}

func (c *stubClient) GetHistory(symbol, period string) ([]domain.PriceBar, error) {
	if bars, ok := c.histories[symbol]; ok {
		return bars, nil
	}
	return nil, errors.New("no history")
}

func (c *stubClient) GetTickerInfo(symbol string) (*domain.TickerInfo, error) {
	if info, ok := c.infos[symbol]; ok {
		return info, nil
	}
	return nil, errors.New("no info")
}

func (c *stubClient) GetAnalystData(symbol string) (*domain.AnalystTargets, error) {
	return nil, errors.New("no targets")
}

func newTestService(client *stubClient) *Service {
	return NewService(client, risk.NewService(client, zerolog.Nop()), zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func equityInfo(symbol, sector string) *domain.TickerInfo {
	return &domain.TickerInfo{
		Symbol:    symbol,
		LongName:  strPtr(symbol + " Inc."),
		Sector:    &sector,
		QuoteType: "EQUITY",
	}
}

func etfInfo(symbol, longName string) *domain.TickerInfo {
	return &domain.TickerInfo{
		Symbol:    symbol,
		LongName:  strPtr(longName),
		QuoteType: "ETF",
	}
}

func seqBars(closes ...float64) []domain.PriceBar {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = domain.PriceBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	return bars
}

func testTable() domain.ScenarioTable {
	return domain.ScenarioTable{
		"tech_rout": {
			Name:        "ハイテク急落",
			Description: "テクノロジー株の急落。",
			Shocks: map[string]float64{
				"equity":     -0.20,
				"technology": -0.35,
			},
		},
	}
}

func TestRun_UnknownScenario(t *testing.T) {
	result := newTestService(&stubClient{}).Run([]string{"AAA"}, "missing", testTable(), nil)

	assert.Equal(t, "シナリオ 'missing' が見つかりません。", result.Error)
	assert.Empty(t, result.TickerImpacts)
	assert.Zero(t, result.HHI)
}

func TestRun_NoTickers(t *testing.T) {
	result := newTestService(&stubClient{}).Run(nil, "tech_rout", testTable(), nil)

	assert.Equal(t, "ティッカーが指定されていません。", result.Error)
	assert.Empty(t, result.TickerImpacts)
}

func TestRun_SectorShocks(t *testing.T) {
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{
			"AAA": equityInfo("AAA", "Technology"),
			"BBB": equityInfo("BBB", "Financial Services"),
		},
	}

	result := newTestService(client).Run([]string{"AAA", "BBB"}, "tech_rout", testTable(), nil)

	require.Empty(t, result.Error)
	assert.Equal(t, "ハイテク急落", result.ScenarioName)
	assert.Equal(t, "テクノロジー株の急落。", result.ScenarioDescription)

	require.Len(t, result.TickerImpacts, 2)
	// Worst first: the technology name takes the specific shock.
	assert.Equal(t, "AAA", result.TickerImpacts[0].Ticker)
	assert.InDelta(t, -0.35, result.TickerImpacts[0].ImpactPct, 1e-9)
	assert.Equal(t, "technology", result.TickerImpacts[0].ShockApplied)
	assert.Equal(t, "Technology", result.TickerImpacts[0].Sector)
	assert.Equal(t, "AAA Inc.", result.TickerImpacts[0].Name)

	assert.Equal(t, "BBB", result.TickerImpacts[1].Ticker)
	assert.InDelta(t, -0.20, result.TickerImpacts[1].ImpactPct, 1e-9)
	assert.Equal(t, "equity", result.TickerImpacts[1].ShockApplied)

	// Equal-weighted portfolio impact and two-name concentration.
	assert.InDelta(t, -0.275, result.PortfolioImpact, 1e-9)
	assert.InDelta(t, 0.5, result.HHI, 1e-9)
	assert.Equal(t, "高集中 (要注意)", result.HHILabel)

	// No price history: correlation and VaR degrade to zero values.
	assert.Zero(t, result.VaR95)
	assert.Zero(t, result.VaR99)
	assert.Equal(t, "", result.CorrelationSummary)
}

func TestRun_ETFOverride(t *testing.T) {
	table := domain.ScenarioTable{
		"flight_to_safety": {
			Name:   "質への逃避",
			Shocks: map[string]float64{"equity": -0.15, "gold": 0.02},
			ETFOverrides: map[string]float64{
				"gold": 0.05,
			},
			// The override path skips sector multipliers entirely.
			SectorMultipliers: map[string]float64{"Technology": 2.0},
		},
	}
	gld := etfInfo("GLD", "SPDR Gold Shares")
	gld.Sector = strPtr("Technology")
	client := &stubClient{infos: map[string]*domain.TickerInfo{"GLD": gld}}

	result := newTestService(client).Run([]string{"GLD"}, "flight_to_safety", table, nil)

	require.Len(t, result.TickerImpacts, 1)
	impact := result.TickerImpacts[0]
	assert.True(t, impact.IsETF)
	assert.InDelta(t, 0.05, impact.ImpactPct, 1e-9)
	assert.Equal(t, "ETF(gold)", impact.ShockApplied)
}

func TestRun_ETFWithoutOverrideWalksProfile(t *testing.T) {
	table := domain.ScenarioTable{
		"rate_spike": {
			Name:   "金利急騰",
			Shocks: map[string]float64{"equity": -0.10, "long_bond": -0.18},
		},
	}
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{
			"TLT": etfInfo("TLT", "iShares 20+ Year Treasury Bond ETF"),
		},
	}

	result := newTestService(client).Run([]string{"TLT"}, "rate_spike", table, nil)

	require.Len(t, result.TickerImpacts, 1)
	assert.InDelta(t, -0.18, result.TickerImpacts[0].ImpactPct, 1e-9)
	assert.Equal(t, "long_bond", result.TickerImpacts[0].ShockApplied)
	assert.Equal(t, "-", result.TickerImpacts[0].Sector)
}

func TestRun_SectorMultiplier(t *testing.T) {
	table := domain.ScenarioTable{
		"tech_rout": {
			Shocks:            map[string]float64{"equity": -0.20, "technology": -0.30},
			SectorMultipliers: map[string]float64{"Technology": 1.2},
		},
	}
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{"AAA": equityInfo("AAA", "Technology")},
	}

	result := newTestService(client).Run([]string{"AAA"}, "tech_rout", table, nil)

	require.Len(t, result.TickerImpacts, 1)
	assert.InDelta(t, -0.36, result.TickerImpacts[0].ImpactPct, 1e-9)
	// The name falls back to the scenario key when unset.
	assert.Equal(t, "tech_rout", result.ScenarioName)
}

func TestRun_FallbackShocks(t *testing.T) {
	// No key from the profile matches: other_equity stands in when the
	// equity shock itself is absent.
	table := domain.ScenarioTable{
		"odd": {Shocks: map[string]float64{"other_equity": -0.11}},
	}
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{"AAA": equityInfo("AAA", "Utilities")},
	}

	result := newTestService(client).Run([]string{"AAA"}, "odd", table, nil)

	require.Len(t, result.TickerImpacts, 1)
	assert.InDelta(t, -0.11, result.TickerImpacts[0].ImpactPct, 1e-9)
	assert.Equal(t, "equity", result.TickerImpacts[0].ShockApplied)

	// An empty shock table applies a zero impact.
	empty := domain.ScenarioTable{"odd": {Shocks: map[string]float64{}}}
	result = newTestService(client).Run([]string{"AAA"}, "odd", empty, nil)
	assert.Zero(t, result.TickerImpacts[0].ImpactPct)
}

func TestRun_Weights(t *testing.T) {
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{
			"AAA": equityInfo("AAA", "Technology"),
			"BBB": equityInfo("BBB", "Financial Services"),
		},
	}

	result := newTestService(client).Run([]string{"AAA", "BBB"}, "tech_rout", testTable(), []float64{300, 100})

	// (-0.35*300 + -0.20*100) / 400
	assert.InDelta(t, -0.3125, result.PortfolioImpact, 1e-9)
	assert.InDelta(t, 0.625, result.HHI, 1e-9)
}

func TestRun_MismatchedWeightsIgnored(t *testing.T) {
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{
			"AAA": equityInfo("AAA", "Technology"),
			"BBB": equityInfo("BBB", "Financial Services"),
		},
	}

	result := newTestService(client).Run([]string{"AAA", "BBB"}, "tech_rout", testTable(), []float64{300})

	// Falls back to equal weighting.
	assert.InDelta(t, -0.275, result.PortfolioImpact, 1e-9)
	assert.InDelta(t, 0.5, result.HHI, 1e-9)
}

func TestRun_NormalizesTickers(t *testing.T) {
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{"AAA": equityInfo("AAA", "Technology")},
	}

	result := newTestService(client).Run([]string{" aaa "}, "tech_rout", testTable(), nil)

	require.Len(t, result.TickerImpacts, 1)
	assert.Equal(t, "AAA", result.TickerImpacts[0].Ticker)
}

func TestRun_UnknownTickerDegrades(t *testing.T) {
	result := newTestService(&stubClient{}).Run([]string{"ZZZ"}, "tech_rout", testTable(), nil)

	require.Len(t, result.TickerImpacts, 1)
	impact := result.TickerImpacts[0]
	assert.Equal(t, "ZZZ", impact.Ticker)
	assert.Equal(t, "ZZZ", impact.Name)
	assert.Equal(t, "-", impact.Sector)
	// Unknown sector takes the generic equity shock.
	assert.InDelta(t, -0.20, impact.ImpactPct, 1e-9)
	assert.Empty(t, result.Error)
}

func TestRun_CorrelationAndVaR(t *testing.T) {
	closes := []float64{100, 110, 99, 105, 100, 103}
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{
			"AAA": equityInfo("AAA", "Technology"),
			"BBB": equityInfo("BBB", "Financial Services"),
		},
		histories: map[string][]domain.PriceBar{
			"AAA": seqBars(closes...),
			"BBB": seqBars(closes...),
		},
	}

	result := newTestService(client).Run([]string{"AAA", "BBB"}, "tech_rout", testTable(), nil)

	assert.InDelta(t, -0.0895, result.VaR95, 1e-9)
	assert.InDelta(t, -0.0979, result.VaR99, 1e-9)
	assert.Equal(t, "AAA と BBB の相関が最も高い (r = 1.00)", result.CorrelationSummary)
}
