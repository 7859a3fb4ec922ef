package health

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/domain"
	"github.com/aristath/riskwatch/internal/modules/technicals"
)

// Level is the four-step alert ladder
type Level string

const (
	LevelOK      Level = "ok"
	LevelWatch   Level = "watch"
	LevelCaution Level = "caution"
	LevelExit    Level = "exit"
)

var levelLabels = map[Level]string{
	LevelOK:      "✅ 正常",
	LevelWatch:   "👀 早期警告",
	LevelCaution: "⚠️ 注意",
	LevelExit:    "🔴 撤退検討",
}

var levelActions = map[Level]string{
	LevelOK:      "現状維持。定期的にモニタリングを続けてください。",
	LevelWatch:   "注視が必要です。テクニカル指標が悪化しています。",
	LevelCaution: "一部利確を検討してください。テクニカル・ファンダメンタル両面で警戒サインが出ています。",
	LevelExit:    "撤退を検討してください。テクニカル崩壊とファンダメンタル悪化が同時発生しています。",
}

// Report is the outcome of a health check for one ticker
type Report struct {
	Ticker     string                  `json:"ticker"`
	Name       string                  `json:"name"`
	IsETF      bool                    `json:"is_etf"`
	Level      Level                   `json:"level"`
	LevelLabel string                  `json:"level_label"`
	Signals    []string                `json:"signals"`
	Action     string                  `json:"action"`
	Technicals domain.TechnicalSignals `json:"technicals"`
}

// Checker classifies tickers on the ok/watch/caution/exit ladder from
// technical and fundamental warning signals.
type Checker struct {
	client domain.MarketData
	log    zerolog.Logger
}

// NewChecker creates a new health checker.
func NewChecker(client domain.MarketData, log zerolog.Logger) *Checker {
	return &Checker{
		client: client,
		log:    log.With().Str("component", "health").Logger(),
	}
}

const (
	historyPeriod = "2y"
	oversoldRSI   = 30.0
)

// Check runs the health check for one ticker. Market data failures are
// logged and degrade the inputs rather than erroring, so an unknown
// ticker still yields a complete report.
//
// Exit requires a dead cross; equities additionally need two or more
// deteriorated fundamentals, ETFs are classified on technicals alone.
func (c *Checker) Check(ticker string) Report {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	info, err := c.client.GetTickerInfo(ticker)
	if err != nil || info == nil {
		c.log.Warn().Str("ticker", ticker).Err(err).Msg("Ticker info unavailable")
		info = &domain.TickerInfo{Symbol: ticker}
	}
	isETF := domain.IsETF(info)

	bars, err := c.client.GetHistory(ticker, historyPeriod)
	if err != nil {
		c.log.Warn().Str("ticker", ticker).Err(err).Msg("History unavailable")
	}
	tech := technicals.Compute(bars)

	fundaCount := 0
	if !isETF {
		fundaCount = fundamentalDeterioration(info)
	}
	level, signals := evaluate(tech, isETF, fundaCount)

	return Report{
		Ticker:     ticker,
		Name:       info.DisplayName(),
		IsETF:      isETF,
		Level:      level,
		LevelLabel: levelLabels[level],
		Signals:    signals,
		Action:     levelActions[level],
		Technicals: tech,
	}
}

// evaluate turns a technical snapshot and the deteriorated-fundamental
// count into an alert level and its human-readable signal list.
//
// A missing SMA50 leaves above_sma50 false, so a ticker with too little
// history classifies as watch even though no break signal is emitted.
func evaluate(tech domain.TechnicalSignals, isETF bool, fundaCount int) (Level, []string) {
	signals := make([]string, 0, 5)

	if tech.Cross == domain.CrossDead {
		signals = append(signals, "デッドクロス: SMA50 が SMA200 を下抜け")
	}
	if !tech.AboveSMA50 && tech.SMA50 != nil {
		signals = append(signals,
			fmt.Sprintf("SMA50 割れ (現在値 %.1f < SMA50 %.1f)", *tech.CurrentPrice, *tech.SMA50))
	}
	oversold := tech.RSI != nil && *tech.RSI < oversoldRSI
	if oversold {
		signals = append(signals, fmt.Sprintf("RSI 過売り圏 (RSI = %.1f)", *tech.RSI))
	}
	if tech.SMA50NearSMA200 {
		signals = append(signals, "SMA50 が SMA200 に接近中 (5%以内)")
	}

	if !isETF {
		if fundaCount >= 2 {
			signals = append(signals, fmt.Sprintf("ファンダメンタル悪化: %d指標が警戒水準", fundaCount))
		} else if fundaCount == 1 {
			signals = append(signals, "ファンダメンタル軽微悪化: 1指標が警戒水準")
		}
	}

	level := LevelOK
	deadCross := tech.Cross == domain.CrossDead
	if isETF {
		switch {
		case deadCross:
			level = LevelExit
		case tech.SMA50NearSMA200:
			level = LevelCaution
		case !tech.AboveSMA50 || oversold:
			level = LevelWatch
		}
	} else {
		switch {
		case deadCross && fundaCount >= 2:
			level = LevelExit
		case tech.SMA50NearSMA200 && fundaCount >= 1:
			level = LevelCaution
		case !tech.AboveSMA50 || oversold:
			level = LevelWatch
		}
	}
	return level, signals
}

// fundamentalDeterioration counts warning-level fundamentals: ROE under
// 5%, shrinking revenue, negative operating margin. Absent metrics do
// not count.
func fundamentalDeterioration(info *domain.TickerInfo) int {
	count := 0
	if info.ReturnOnEquity != nil && *info.ReturnOnEquity < 0.05 {
		count++
	}
	if info.RevenueGrowth != nil && *info.RevenueGrowth < 0 {
		count++
	}
	if info.OperatingMargins != nil && *info.OperatingMargins < 0 {
		count++
	}
	return count
}
