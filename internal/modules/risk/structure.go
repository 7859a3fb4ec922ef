package risk

import (
	"math"
	"sort"
)

// SectorAllocation is one sector's share of portfolio value in percent
type SectorAllocation struct {
	Sector string  `json:"sector"`
	Pct    float64 `json:"pct"`
}

// StructureResult summarizes portfolio composition: concentration and
// sector allocation. Sectors are sorted by allocated value, largest
// first.
type StructureResult struct {
	HHI     float64            `json:"hhi"`
	Label   string             `json:"hhi_label"`
	Sectors []SectorAllocation `json:"sectors"`
	Tickers []string           `json:"tickers"`
}

// Structure computes concentration and sector allocation from position
// market values. Unlike HHI, every weight participates in the squared
// sum here. Unknown sectors are grouped under "不明".
func (s *Service) Structure(positions map[string]float64) StructureResult {
	if len(positions) == 0 {
		return StructureResult{Label: ClassifyHHI(0), Sectors: []SectorAllocation{}, Tickers: []string{}}
	}

	tickers := make([]string, 0, len(positions))
	for t := range positions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	weights := make([]float64, 0, len(tickers))
	sectorValues := make(map[string]float64)
	sectorOrder := make([]string, 0)
	total := 0.0

	for _, ticker := range tickers {
		value := positions[ticker]
		weights = append(weights, value)
		total += value

		sector := "不明"
		if info, err := s.client.GetTickerInfo(ticker); err == nil && info != nil {
			sector = info.SectorName("不明")
		}
		if _, seen := sectorValues[sector]; !seen {
			sectorOrder = append(sectorOrder, sector)
		}
		sectorValues[sector] += value
	}

	if total <= 0 {
		return StructureResult{Label: ClassifyHHI(0), Sectors: []SectorAllocation{}, Tickers: tickers}
	}

	hhi := 0.0
	for _, w := range weights {
		ratio := w / total
		hhi += ratio * ratio
	}

	sort.SliceStable(sectorOrder, func(i, j int) bool {
		return sectorValues[sectorOrder[i]] > sectorValues[sectorOrder[j]]
	})
	sectors := make([]SectorAllocation, len(sectorOrder))
	for i, sector := range sectorOrder {
		sectors[i] = SectorAllocation{
			Sector: sector,
			Pct:    math.Round(sectorValues[sector]/total*1000) / 10,
		}
	}

	return StructureResult{
		HHI:     round4(hhi),
		Label:   ClassifyHHI(hhi),
		Sectors: sectors,
		Tickers: tickers,
	}
}
