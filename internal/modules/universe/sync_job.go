package universe

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/domain"
)

// syncPeriod matches the range the analytics engines request, so a sync
// leaves the cache warm for every consumer.
const syncPeriod = "2y"

// PriceSyncJob refreshes cached price history for the configured watchlist.
// It always fetches from the upstream client, bypassing the cache TTL.
type PriceSyncJob struct {
	upstream  domain.MarketData
	store     *Store
	watchlist []string
	log       zerolog.Logger
}

// NewPriceSyncJob creates a new price sync job.
func NewPriceSyncJob(upstream domain.MarketData, store *Store, watchlist []string, log zerolog.Logger) *PriceSyncJob {
	return &PriceSyncJob{
		upstream:  upstream,
		store:     store,
		watchlist: watchlist,
		log:       log.With().Str("component", "price_sync").Logger(),
	}
}

// Name returns the job name
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Run refreshes every watchlist symbol, continuing past per-symbol failures.
func (j *PriceSyncJob) Run() error {
	if len(j.watchlist) == 0 {
		j.log.Debug().Msg("Watchlist empty, nothing to sync")
		return nil
	}

	failed := 0
	for _, symbol := range j.watchlist {
		bars, err := j.upstream.GetHistory(symbol, syncPeriod)
		if err != nil {
			j.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to fetch price history")
			failed++
			continue
		}
		if len(bars) == 0 {
			j.log.Warn().Str("symbol", symbol).Msg("No price history returned")
			failed++
			continue
		}

		if err := j.store.SaveBars(symbol, syncPeriod, bars); err != nil {
			j.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to save price history")
			failed++
			continue
		}

		j.log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("Synced price history")
	}

	j.log.Info().
		Int("synced", len(j.watchlist)-failed).
		Int("failed", failed).
		Msg("Price sync completed")

	if failed == len(j.watchlist) {
		return fmt.Errorf("all %d watchlist symbols failed to sync", failed)
	}
	return nil
}
