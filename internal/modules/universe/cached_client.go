package universe

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/domain"
)

// CachedClient wraps a market data client with the price history store.
// History reads are served from the store while fresh, written through on
// fetch, and fall back to stale cache when the upstream fails. Quote and
// analyst lookups pass straight through.
type CachedClient struct {
	upstream domain.MarketData
	store    *Store
	ttl      time.Duration
	log      zerolog.Logger
}

// NewCachedClient creates a caching market data client.
func NewCachedClient(upstream domain.MarketData, store *Store, ttl time.Duration, log zerolog.Logger) *CachedClient {
	return &CachedClient{
		upstream: upstream,
		store:    store,
		ttl:      ttl,
		log:      log.With().Str("component", "price_cache").Logger(),
	}
}

// GetHistory serves cached daily bars when fresh, otherwise fetches from the
// upstream client and writes the result through to the store.
func (c *CachedClient) GetHistory(symbol string, period string) ([]domain.PriceBar, error) {
	since := periodStart(time.Now().UTC(), period)

	syncedAt, err := c.store.LastSyncedAt(symbol, period)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to read sync state")
	} else if syncedAt != nil && time.Since(*syncedAt) < c.ttl {
		bars, err := c.store.GetBars(symbol, since)
		if err == nil && len(bars) > 0 {
			c.log.Debug().
				Str("symbol", symbol).
				Str("period", period).
				Int("count", len(bars)).
				Msg("Serving cached price history")
			return bars, nil
		}
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to read cached bars")
		}
	}

	bars, err := c.upstream.GetHistory(symbol, period)
	if err != nil {
		// Stale cache beats no data.
		cached, cacheErr := c.store.GetBars(symbol, since)
		if cacheErr == nil && len(cached) > 0 {
			c.log.Warn().
				Err(err).
				Str("symbol", symbol).
				Int("count", len(cached)).
				Msg("Upstream fetch failed, serving stale cache")
			return cached, nil
		}
		return nil, err
	}

	if len(bars) > 0 {
		if saveErr := c.store.SaveBars(symbol, period, bars); saveErr != nil {
			c.log.Warn().Err(saveErr).Str("symbol", symbol).Msg("Failed to cache price history")
		}
	}

	return bars, nil
}

// GetTickerInfo passes through to the upstream client.
func (c *CachedClient) GetTickerInfo(symbol string) (*domain.TickerInfo, error) {
	return c.upstream.GetTickerInfo(symbol)
}

// GetAnalystData passes through to the upstream client.
func (c *CachedClient) GetAnalystData(symbol string) (*domain.AnalystTargets, error) {
	return c.upstream.GetAnalystData(symbol)
}

// periodStart converts a Yahoo range string to the inclusive start date for
// cache reads. Unknown ranges return the zero time, which matches everything.
func periodStart(now time.Time, period string) time.Time {
	switch period {
	case "1d":
		return now.AddDate(0, 0, -1)
	case "5d":
		return now.AddDate(0, 0, -5)
	case "1mo":
		return now.AddDate(0, -1, 0)
	case "3mo":
		return now.AddDate(0, -3, 0)
	case "6mo":
		return now.AddDate(0, -6, 0)
	case "1y":
		return now.AddDate(-1, 0, 0)
	case "2y":
		return now.AddDate(-2, 0, 0)
	case "5y":
		return now.AddDate(-5, 0, 0)
	case "10y":
		return now.AddDate(-10, 0, 0)
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}
