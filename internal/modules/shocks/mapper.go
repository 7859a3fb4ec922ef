package shocks

import (
	"strings"

	"github.com/aristath/riskwatch/internal/domain"
)

// sectorShockKeys maps a Yahoo sector name to the shock keys that apply
// to it, most specific first. Sectors without a specific shock map to
// the generic equity shock only.
var sectorShockKeys = map[string][]string{
	"Technology":             {"technology", "equity"},
	"Communication Services": {"technology", "equity"},
	"Real Estate":            {"real_estate", "equity"},
	"Energy":                 {"oil", "equity"},
	"Basic Materials":        {"commodity", "equity"},
	"Consumer Cyclical":      {"other_equity", "equity"},
	"Consumer Defensive":     {"equity"},
	"Industrials":            {"other_equity", "equity"},
	"Healthcare":             {"healthcare", "equity"},
	"Financial Services":     {"equity"},
	"Utilities":              {"equity"},
}

// etfClassKeywords classifies an ETF by substring match against its
// name. Groups are checked in order; the first group with a match wins,
// so the generic bond group must stay after treasury and long-bond.
var etfClassKeywords = []struct {
	keywords []string
	class    string
}{
	{[]string{"Gold", "金", "GOLD"}, "gold"},
	{[]string{"Treasury", "T-Bond", "Treasur"}, "treasury"},
	{[]string{"Long Bond", "Long-Bond", "20+", "長期債", "TLT"}, "long_bond"},
	{[]string{"TIPS", "Inflation", "インフレ"}, "tips"},
	{[]string{"Defense", "Aerospace", "防衛"}, "defense"},
	{[]string{"Dividend", "Income", "インカム", "配当"}, "equity_income"},
	{[]string{"Bond", "債券", "Fixed Income", "Credit"}, "long_bond"},
}

// ETFClass classifies an ETF into the asset class used by scenario
// etf_overrides ("gold", "long_bond", ...). Returns "" when no keyword
// matches the fund name.
func ETFClass(info *domain.TickerInfo) string {
	name := strings.ToUpper(info.DisplayName())
	for _, group := range etfClassKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(name, strings.ToUpper(kw)) {
				return group.class
			}
		}
	}
	return ""
}

// Profile returns the ordered shock preference list for one asset.
//
// ETFs map through their asset class, equities through their sector.
// Either way the result falls back to the generic equity shock. The
// per-key weights mirror the mapping tables but scenario impact uses
// the key order only.
func Profile(info *domain.TickerInfo, isETF bool) domain.ShockProfile {
	if isETF {
		switch ETFClass(info) {
		case "gold":
			return domain.ShockProfile{{Key: "gold", Weight: 1.0}}
		case "long_bond", "treasury":
			return domain.ShockProfile{{Key: "long_bond", Weight: 1.0}, {Key: "bond", Weight: 1.0}}
		case "tips":
			return domain.ShockProfile{{Key: "tips", Weight: 1.0}, {Key: "bond", Weight: 0.5}}
		case "defense":
			return domain.ShockProfile{{Key: "defense", Weight: 1.0}, {Key: "equity", Weight: 0.5}}
		case "equity_income":
			return domain.ShockProfile{{Key: "equity", Weight: 1.0}}
		default:
			return domain.ShockProfile{{Key: "equity", Weight: 1.0}}
		}
	}

	keys, ok := sectorShockKeys[info.SectorName("")]
	if !ok {
		keys = []string{"equity"}
	}
	profile := make(domain.ShockProfile, len(keys))
	for i, k := range keys {
		profile[i] = domain.ShockWeight{Key: k, Weight: 1.0}
	}
	return profile
}
