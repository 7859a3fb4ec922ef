package planning

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/riskwatch/internal/domain"
)

// Trigger thresholds for the recommendation rules
const (
	hhiThreshold           = 0.25
	portfolioDropThreshold = -0.25
	var95Threshold         = -0.15
	singleImpactThreshold  = -0.40
)

// Generate produces actionable recommendations from a scenario result.
// Rules are applied in order and several can trigger at once; when none
// does, a single all-clear message is returned.
func Generate(result domain.ScenarioResult) []string {
	recs := make([]string, 0, 4)

	if result.HHI > hhiThreshold {
		recs = append(recs, fmt.Sprintf(
			"集中度が高い (HHI = %.2f)。上位銘柄のウェイト削減または新規銘柄の追加による分散を検討してください。",
			result.HHI))
	}

	if result.PortfolioImpact < portfolioDropThreshold {
		recs = append(recs, fmt.Sprintf(
			"このシナリオでは推定 %.1f%% の下落が見込まれます。ヘッジ手段 (金ETF・債券ETFの組み入れ等) またはポジション縮小を検討してください。",
			result.PortfolioImpact*100))
	}

	if result.VaR95 < var95Threshold {
		recs = append(recs, fmt.Sprintf(
			"95%% VaR が %.1f%% と高水準です。ポートフォリオ全体のポジションサイズの見直しを推奨します。",
			result.VaR95*100))
	}

	for _, impact := range result.TickerImpacts {
		if impact.ImpactPct < singleImpactThreshold {
			recs = append(recs, fmt.Sprintf(
				"%s (%s): シナリオ下での推定インパクトが %.1f%% と大きい。リバランスまたはリスク低減を検討してください。",
				impact.Name, impact.Ticker, impact.ImpactPct*100))
		}
	}

	if len(recs) == 0 {
		recs = append(recs,
			"現時点でこのシナリオにおける主要なリスクシグナルは検出されていません。引き続き定期的なモニタリングを継続してください。")
	}

	return recs
}

// Advice is a generated recommendation set for one scenario run
type Advice struct {
	ID              string    `json:"id"`
	ScenarioKey     string    `json:"scenario_key"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewAdvice wraps the recommendations for a scenario result in an
// identifiable record.
func NewAdvice(scenarioKey string, result domain.ScenarioResult) Advice {
	return Advice{
		ID:              uuid.New().String(),
		ScenarioKey:     scenarioKey,
		Recommendations: Generate(result),
		CreatedAt:       time.Now().UTC(),
	}
}
