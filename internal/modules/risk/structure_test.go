package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskwatch/internal/domain"
)

func TestStructure(t *testing.T) {
	tech := "Technology"
	energy := "Energy"
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{
			"AAA": {Symbol: "AAA", Sector: &tech},
			"BBB": {Symbol: "BBB", Sector: &energy},
			// CCC has no info and lands in the unknown bucket.
		},
	}

	result := newTestService(client).Structure(map[string]float64{
		"AAA": 600,
		"BBB": 300,
		"CCC": 100,
	})

	assert.InDelta(t, 0.46, result.HHI, 1e-9)
	assert.Equal(t, "高集中 (要注意)", result.Label)
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, result.Tickers)

	require.Len(t, result.Sectors, 3)
	assert.Equal(t, SectorAllocation{Sector: "Technology", Pct: 60.0}, result.Sectors[0])
	assert.Equal(t, SectorAllocation{Sector: "Energy", Pct: 30.0}, result.Sectors[1])
	assert.Equal(t, SectorAllocation{Sector: "不明", Pct: 10.0}, result.Sectors[2])
}

func TestStructure_GroupsSectors(t *testing.T) {
	tech := "Technology"
	client := &stubClient{
		infos: map[string]*domain.TickerInfo{
			"AAA": {Symbol: "AAA", Sector: &tech},
			"BBB": {Symbol: "BBB", Sector: &tech},
		},
	}

	result := newTestService(client).Structure(map[string]float64{
		"AAA": 250,
		"BBB": 750,
	})

	require.Len(t, result.Sectors, 1)
	assert.Equal(t, SectorAllocation{Sector: "Technology", Pct: 100.0}, result.Sectors[0])
	assert.InDelta(t, 0.625, result.HHI, 1e-9)
}

func TestStructure_Empty(t *testing.T) {
	result := newTestService(&stubClient{}).Structure(nil)

	assert.Equal(t, 0.0, result.HHI)
	assert.Empty(t, result.Sectors)
	assert.Empty(t, result.Tickers)
}

func TestStructure_ZeroTotal(t *testing.T) {
	result := newTestService(&stubClient{}).Structure(map[string]float64{"AAA": 0})

	assert.Equal(t, 0.0, result.HHI)
	assert.Empty(t, result.Sectors)
	assert.Equal(t, []string{"AAA"}, result.Tickers)
}
