package cleanup

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/database"
)

// DefaultRetention keeps one year of slack beyond the 2-year analysis
// window, so pruning never races a fetch.
const DefaultRetention = 3 * 365 * 24 * time.Hour

// HistoryCleanupJob prunes the price-history cache: bars older than the
// retention window, and symbols that are no longer on the watchlist.
type HistoryCleanupJob struct {
	historyDB *database.DB
	watchlist map[string]bool
	retention time.Duration
	log       zerolog.Logger
}

// NewHistoryCleanupJob creates a new history cleanup job.
func NewHistoryCleanupJob(historyDB *database.DB, watchlist []string, retention time.Duration, log zerolog.Logger) *HistoryCleanupJob {
	watched := make(map[string]bool, len(watchlist))
	for _, symbol := range watchlist {
		watched[strings.ToUpper(strings.TrimSpace(symbol))] = true
	}
	return &HistoryCleanupJob{
		historyDB: historyDB,
		watchlist: watched,
		retention: retention,
		log:       log.With().Str("job", "history_cleanup").Logger(),
	}
}

// Name returns the job name for the scheduler
func (j *HistoryCleanupJob) Name() string {
	return "history_cleanup"
}

// Run executes the cleanup job
func (j *HistoryCleanupJob) Run() error {
	j.log.Info().Msg("Starting history cleanup job")

	pruned, err := j.pruneExpiredBars()
	if err != nil {
		return fmt.Errorf("failed to prune expired bars: %w", err)
	}

	removed := 0
	errCount := 0

	orphaned, err := j.findOrphanedSymbols()
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to find orphaned symbols")
		errCount++
	}
	for _, symbol := range orphaned {
		if err := j.removeSymbol(symbol); err != nil {
			j.log.Error().
				Err(err).
				Str("symbol", symbol).
				Msg("Failed to remove symbol")
			errCount++
		} else {
			removed++
		}
	}

	j.log.Info().
		Int64("bars_pruned", pruned).
		Int("symbols_removed", removed).
		Int("errors", errCount).
		Msg("History cleanup job completed")

	if errCount > 0 {
		return fmt.Errorf("cleanup completed with %d errors", errCount)
	}
	return nil
}

// pruneExpiredBars deletes daily and monthly rows older than the
// retention window.
func (j *HistoryCleanupJob) pruneExpiredBars() (int64, error) {
	cutoff := time.Now().UTC().Add(-j.retention)

	daily, err := j.historyDB.Conn().Exec(
		"DELETE FROM daily_prices WHERE date < ?", cutoff.Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("failed to delete from daily_prices: %w", err)
	}

	monthly, err := j.historyDB.Conn().Exec(
		"DELETE FROM monthly_prices WHERE year_month < ?", cutoff.Format("2006-01"))
	if err != nil {
		return 0, fmt.Errorf("failed to delete from monthly_prices: %w", err)
	}

	dailyRows, _ := daily.RowsAffected()
	monthlyRows, _ := monthly.RowsAffected()
	return dailyRows + monthlyRows, nil
}

// findOrphanedSymbols returns cached symbols that are not on the
// watchlist. An empty watchlist skips the sweep: without one there is no
// authority on what should stay cached.
func (j *HistoryCleanupJob) findOrphanedSymbols() ([]string, error) {
	if len(j.watchlist) == 0 {
		return nil, nil
	}

	rows, err := j.historyDB.Conn().Query("SELECT DISTINCT symbol FROM daily_prices")
	if err != nil {
		return nil, fmt.Errorf("failed to query cached symbols: %w", err)
	}
	defer rows.Close()

	var orphaned []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if !j.watchlist[strings.ToUpper(symbol)] {
			orphaned = append(orphaned, symbol)
		}
	}
	return orphaned, rows.Err()
}

// removeSymbol drops every cached row for one symbol
func (j *HistoryCleanupJob) removeSymbol(symbol string) error {
	var deleted int64
	err := database.WithTransaction(j.historyDB.Conn(), func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM daily_prices WHERE symbol = ?", symbol)
		if err != nil {
			return fmt.Errorf("failed to delete from daily_prices: %w", err)
		}
		deleted, _ = result.RowsAffected()

		if _, err := tx.Exec("DELETE FROM monthly_prices WHERE symbol = ?", symbol); err != nil {
			return fmt.Errorf("failed to delete from monthly_prices: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM sync_state WHERE symbol = ?", symbol); err != nil {
			return fmt.Errorf("failed to delete from sync_state: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	j.log.Info().
		Str("symbol", symbol).
		Int64("rows_deleted", deleted).
		Msg("Symbol removed from cache")
	return nil
}
