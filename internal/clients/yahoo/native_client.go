package yahoo

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/aristath/riskwatch/internal/domain"
)

// NativeClient fetches market data through the go-yfinance library instead of
// the raw JSON endpoints. The library exposes value-typed fields, so a zero is
// indistinguishable from an absent field; zero fundamentals are treated as
// absent here, which keeps negative readings (revenue decline, margin losses)
// intact for the health checks.
type NativeClient struct {
	log zerolog.Logger
}

// NewNativeClient creates a new native Yahoo Finance client.
func NewNativeClient(log zerolog.Logger) *NativeClient {
	return &NativeClient{
		log: log.With().Str("client", "yahoo-native").Logger(),
	}
}

// GetTickerInfo fetches identity, pricing and fundamental fields for a symbol.
// The library's info payload carries no sector field, so Sector stays nil and
// callers fall back to their defaults.
func (c *NativeClient) GetTickerInfo(symbol string) (*domain.TickerInfo, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	info, err := t.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get info: %w", err)
	}

	out := &domain.TickerInfo{
		Symbol:    symbol,
		QuoteType: info.QuoteType,
	}

	// Copy values to local variables before taking addresses to avoid
	// cross-contamination if the ticker library reuses internal buffers.
	if info.LongName != "" {
		longName := info.LongName
		out.LongName = &longName
	}
	if info.ShortName != "" {
		shortName := info.ShortName
		out.ShortName = &shortName
	}
	if info.Industry != "" {
		industry := info.Industry
		out.Industry = &industry
	}
	if info.Country != "" {
		country := info.Country
		out.Country = &country
	}
	if info.Exchange != "" {
		exchange := info.Exchange
		out.Exchange = &exchange
	}
	if info.CurrentPrice > 0 {
		currentPrice := info.CurrentPrice
		out.CurrentPrice = &currentPrice
	}
	if info.RegularMarketPreviousClose > 0 {
		previousClose := info.RegularMarketPreviousClose
		out.RegularMarketPrice = &previousClose
	}
	if info.ReturnOnEquity != 0 {
		returnOnEquity := info.ReturnOnEquity
		out.ReturnOnEquity = &returnOnEquity
	}
	if info.RevenueGrowth != 0 {
		revenueGrowth := info.RevenueGrowth
		out.RevenueGrowth = &revenueGrowth
	}
	if info.OperatingMargins != 0 {
		operatingMargins := info.OperatingMargins
		out.OperatingMargins = &operatingMargins
	}

	return out, nil
}

// GetAnalystData fetches analyst price targets for a symbol. The library only
// exposes the mean target and the analyst count, so TargetHigh and TargetLow
// stay nil and the return estimator synthesizes a spread around the mean.
func (c *NativeClient) GetAnalystData(symbol string) (*domain.AnalystTargets, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	priceTarget, err := t.AnalystPriceTargets()
	if err != nil {
		return nil, fmt.Errorf("failed to get price targets: %w", err)
	}

	out := &domain.AnalystTargets{
		Symbol:       symbol,
		AnalystCount: priceTarget.NumberOfAnalysts,
	}

	mean := priceTarget.Mean
	if mean == 0 {
		mean = priceTarget.Median
	}
	if mean > 0 {
		out.TargetMean = &mean
	}

	return out, nil
}

// GetHistory fetches daily OHLCV bars for a symbol over the given period.
func (c *NativeClient) GetHistory(symbol string, period string) ([]domain.PriceBar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	params := models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	}

	bars, err := t.History(params)
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}

	out := make([]domain.PriceBar, 0, len(bars))
	for _, bar := range bars {
		out = append(out, domain.PriceBar{
			Date:     bar.Date,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			Volume:   int64(bar.Volume),
			AdjClose: bar.AdjClose,
		})
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("period", period).
		Int("count", len(out)).
		Msg("Fetched historical prices")

	return out, nil
}
