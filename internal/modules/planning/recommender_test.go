package planning

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskwatch/internal/domain"
)

func TestGenerate_AllClear(t *testing.T) {
	result := domain.ScenarioResult{
		HHI:             0.10,
		PortfolioImpact: -0.05,
		VaR95:           -0.02,
	}

	recs := Generate(result)

	require.Len(t, recs, 1)
	assert.Equal(t,
		"現時点でこのシナリオにおける主要なリスクシグナルは検出されていません。引き続き定期的なモニタリングを継続してください。",
		recs[0])
}

func TestGenerate_HighConcentration(t *testing.T) {
	recs := Generate(domain.ScenarioResult{HHI: 0.46})

	require.Len(t, recs, 1)
	assert.Equal(t,
		"集中度が高い (HHI = 0.46)。上位銘柄のウェイト削減または新規銘柄の追加による分散を検討してください。",
		recs[0])
}

func TestGenerate_PortfolioDrop(t *testing.T) {
	recs := Generate(domain.ScenarioResult{PortfolioImpact: -0.313})

	require.Len(t, recs, 1)
	assert.Equal(t,
		"このシナリオでは推定 -31.3% の下落が見込まれます。ヘッジ手段 (金ETF・債券ETFの組み入れ等) またはポジション縮小を検討してください。",
		recs[0])
}

func TestGenerate_HighVaR(t *testing.T) {
	recs := Generate(domain.ScenarioResult{VaR95: -0.18})

	require.Len(t, recs, 1)
	assert.Equal(t,
		"95% VaR が -18.0% と高水準です。ポートフォリオ全体のポジションサイズの見直しを推奨します。",
		recs[0])
}

func TestGenerate_LargeSingleImpacts(t *testing.T) {
	result := domain.ScenarioResult{
		TickerImpacts: []domain.TickerImpact{
			{Ticker: "AAA", Name: "Alpha Inc.", ImpactPct: -0.42},
			{Ticker: "BBB", Name: "Beta Corp.", ImpactPct: -0.20},
			{Ticker: "CCC", Name: "Gamma Ltd.", ImpactPct: -0.55},
		},
	}

	recs := Generate(result)

	require.Len(t, recs, 2)
	assert.Equal(t,
		"Alpha Inc. (AAA): シナリオ下での推定インパクトが -42.0% と大きい。リバランスまたはリスク低減を検討してください。",
		recs[0])
	assert.Equal(t,
		"Gamma Ltd. (CCC): シナリオ下での推定インパクトが -55.0% と大きい。リバランスまたはリスク低減を検討してください。",
		recs[1])
}

func TestGenerate_MultipleRulesStack(t *testing.T) {
	result := domain.ScenarioResult{
		HHI:             0.50,
		PortfolioImpact: -0.30,
		VaR95:           -0.20,
		TickerImpacts: []domain.TickerImpact{
			{Ticker: "AAA", Name: "Alpha Inc.", ImpactPct: -0.45},
		},
	}

	recs := Generate(result)

	require.Len(t, recs, 4)
	assert.Contains(t, recs[0], "集中度が高い")
	assert.Contains(t, recs[1], "下落が見込まれます")
	assert.Contains(t, recs[2], "95% VaR")
	assert.Contains(t, recs[3], "Alpha Inc. (AAA)")
}

func TestGenerate_Boundaries(t *testing.T) {
	// Threshold values themselves do not trigger.
	result := domain.ScenarioResult{
		HHI:             0.25,
		PortfolioImpact: -0.25,
		VaR95:           -0.15,
		TickerImpacts: []domain.TickerImpact{
			{Ticker: "AAA", Name: "Alpha Inc.", ImpactPct: -0.40},
		},
	}

	recs := Generate(result)

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "主要なリスクシグナルは検出されていません")
}

func TestNewAdvice(t *testing.T) {
	advice := NewAdvice("rate_spike", domain.ScenarioResult{HHI: 0.46})

	_, err := uuid.Parse(advice.ID)
	assert.NoError(t, err)
	assert.Equal(t, "rate_spike", advice.ScenarioKey)
	require.Len(t, advice.Recommendations, 1)
	assert.Contains(t, advice.Recommendations[0], "集中度が高い")
	assert.False(t, advice.CreatedAt.IsZero())
}
