package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aristath/riskwatch/internal/domain"
)

// LoadDefinitions reads a scenario table from a JSON file. The file
// maps scenario keys to definitions:
//
//	{"rate_spike": {"name": "金利急騰", "shocks": {"equity": -0.12}, ...}}
func LoadDefinitions(path string) (domain.ScenarioTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario definitions: %w", err)
	}
	var table domain.ScenarioTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse scenario definitions: %w", err)
	}
	return table, nil
}

// Defaults returns the built-in scenario table, used when no definition
// file is configured. A fresh copy is built per call so callers cannot
// mutate shared state.
func Defaults() domain.ScenarioTable {
	return domain.ScenarioTable{
		"triple_decline": {
			Name:        "トリプル安",
			Description: "株式・債券・通貨が同時に売られる複合ショック。",
			Shocks: map[string]float64{
				"equity":       -0.20,
				"technology":   -0.28,
				"other_equity": -0.18,
				"healthcare":   -0.15,
				"real_estate":  -0.25,
				"oil":          -0.10,
				"commodity":    -0.08,
				"long_bond":    -0.12,
				"bond":         -0.10,
				"tips":         -0.06,
				"gold":         0.05,
				"defense":      -0.12,
			},
			ETFOverrides: map[string]float64{
				"gold":      0.05,
				"long_bond": -0.12,
				"tips":      -0.06,
			},
			SectorMultipliers: map[string]float64{
				"Technology":  1.2,
				"Real Estate": 1.1,
			},
		},
		"rate_spike": {
			Name:        "金利急騰",
			Description: "長期金利の急上昇により高バリュエーション資産と債券が売られる。",
			Shocks: map[string]float64{
				"equity":       -0.12,
				"technology":   -0.20,
				"other_equity": -0.10,
				"healthcare":   -0.08,
				"real_estate":  -0.22,
				"oil":          -0.05,
				"commodity":    -0.04,
				"long_bond":    -0.18,
				"bond":         -0.15,
				"tips":         -0.05,
				"gold":         -0.03,
				"defense":      -0.06,
			},
			ETFOverrides: map[string]float64{
				"gold":      -0.03,
				"long_bond": -0.18,
				"tips":      -0.05,
			},
			SectorMultipliers: map[string]float64{
				"Real Estate": 1.2,
			},
		},
		"recession": {
			Name:        "景気後退",
			Description: "需要減退による景気後退。景気敏感株が大きく下落し、安全資産に資金が向かう。",
			Shocks: map[string]float64{
				"equity":       -0.25,
				"technology":   -0.30,
				"other_equity": -0.28,
				"healthcare":   -0.12,
				"real_estate":  -0.28,
				"oil":          -0.30,
				"commodity":    -0.20,
				"long_bond":    0.10,
				"bond":         0.08,
				"tips":         0.02,
				"gold":         0.08,
				"defense":      -0.10,
			},
			ETFOverrides: map[string]float64{
				"gold":      0.08,
				"long_bond": 0.10,
				"tips":      0.02,
			},
			SectorMultipliers: map[string]float64{
				"Consumer Cyclical": 1.3,
			},
		},
		"inflation_surge": {
			Name:        "インフレ急進",
			Description: "インフレ率の急上昇。実物資産が買われ、債券と成長株が売られる。",
			Shocks: map[string]float64{
				"equity":       -0.10,
				"technology":   -0.18,
				"other_equity": -0.08,
				"healthcare":   -0.06,
				"real_estate":  -0.08,
				"oil":          0.15,
				"commodity":    0.12,
				"long_bond":    -0.20,
				"bond":         -0.15,
				"tips":         0.05,
				"gold":         0.10,
				"defense":      -0.04,
			},
			ETFOverrides: map[string]float64{
				"gold":      0.10,
				"long_bond": -0.20,
				"tips":      0.05,
			},
			SectorMultipliers: map[string]float64{},
		},
		"geopolitical_shock": {
			Name:        "地政学ショック",
			Description: "軍事衝突や供給網寸断による急落。エネルギー・防衛・金が買われる。",
			Shocks: map[string]float64{
				"equity":       -0.15,
				"technology":   -0.18,
				"other_equity": -0.12,
				"healthcare":   -0.05,
				"real_estate":  -0.10,
				"oil":          0.20,
				"commodity":    0.10,
				"long_bond":    0.05,
				"bond":         0.03,
				"tips":         0.02,
				"gold":         0.12,
				"defense":      0.12,
			},
			ETFOverrides: map[string]float64{
				"gold":      0.12,
				"long_bond": 0.05,
				"defense":   0.12,
			},
			SectorMultipliers: map[string]float64{
				"Energy": 0.8,
			},
		},
	}
}
