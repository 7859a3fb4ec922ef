package universe

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/database"
	"github.com/aristath/riskwatch/internal/domain"
)

// Store persists fetched price history. Bars are keyed by calendar date
// (UTC); intraday timestamps are truncated on write.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a new price history store.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("component", "price_store").Logger(),
	}
}

// MonthlyClose is a month-end closing price.
type MonthlyClose struct {
	YearMonth string  `json:"year_month"`
	Close     float64 `json:"close"`
}

// SaveBars upserts daily bars for a symbol, refreshes the monthly aggregate
// and records the sync time for the given period, all in one transaction.
func (s *Store) SaveBars(symbol string, period string, bars []domain.PriceBar) error {
	err := database.WithTransaction(s.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT OR REPLACE INTO daily_prices
			(symbol, date, open, high, low, close, volume, adj_close)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, bar := range bars {
			volume := sql.NullInt64{}
			if bar.Volume > 0 {
				volume.Int64 = bar.Volume
				volume.Valid = true
			}

			adjClose := bar.AdjClose
			if adjClose == 0 {
				adjClose = bar.Close
			}

			_, err = stmt.Exec(
				symbol,
				bar.Date.UTC().Format("2006-01-02"),
				bar.Open,
				bar.High,
				bar.Low,
				bar.Close,
				volume,
				adjClose,
			)
			if err != nil {
				return fmt.Errorf("failed to insert daily price for %s: %w", bar.Date.UTC().Format("2006-01-02"), err)
			}
		}

		// Month-end close per month: the bare close column rides the
		// MAX(date) row (documented SQLite min/max behavior).
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO monthly_prices (symbol, year_month, close, created_at)
			SELECT symbol, strftime('%Y-%m', MAX(date)), close, datetime('now')
			FROM daily_prices
			WHERE symbol = ?
			GROUP BY strftime('%Y-%m', date)
		`, symbol)
		if err != nil {
			return fmt.Errorf("failed to aggregate monthly prices: %w", err)
		}

		_, err = tx.Exec(`
			INSERT OR REPLACE INTO sync_state (symbol, period, synced_at)
			VALUES (?, ?, ?)
		`, symbol, period, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to record sync state: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug().
		Str("symbol", symbol).
		Str("period", period).
		Int("count", len(bars)).
		Msg("Saved price history")

	return nil
}

// GetBars fetches cached daily bars for a symbol on or after the given date,
// in ascending date order.
func (s *Store) GetBars(symbol string, since time.Time) ([]domain.PriceBar, error) {
	rows, err := s.db.Query(`
		SELECT date, open, high, low, close, volume, adj_close
		FROM daily_prices
		WHERE symbol = ? AND date >= ?
		ORDER BY date ASC
	`, symbol, since.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var bars []domain.PriceBar
	for rows.Next() {
		var dateStr string
		var bar domain.PriceBar
		var volume sql.NullInt64
		var adjClose sql.NullFloat64

		if err := rows.Scan(&dateStr, &bar.Open, &bar.High, &bar.Low, &bar.Close, &volume, &adjClose); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", dateStr, err)
		}
		bar.Date = date

		if volume.Valid {
			bar.Volume = volume.Int64
		}
		if adjClose.Valid {
			bar.AdjClose = adjClose.Float64
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return bars, nil
}

// MonthlyCloses fetches up to limit month-end closes for a symbol, most
// recent first.
func (s *Store) MonthlyCloses(symbol string, limit int) ([]MonthlyClose, error) {
	rows, err := s.db.Query(`
		SELECT year_month, close
		FROM monthly_prices
		WHERE symbol = ?
		ORDER BY year_month DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly prices: %w", err)
	}
	defer rows.Close()

	var closes []MonthlyClose
	for rows.Next() {
		var m MonthlyClose
		if err := rows.Scan(&m.YearMonth, &m.Close); err != nil {
			return nil, fmt.Errorf("failed to scan monthly price: %w", err)
		}
		closes = append(closes, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly prices: %w", err)
	}

	return closes, nil
}

// LastSyncedAt returns when the symbol was last refreshed for the given
// period, or nil if it never was.
func (s *Store) LastSyncedAt(symbol string, period string) (*time.Time, error) {
	var syncedAt string
	err := s.db.QueryRow(
		"SELECT synced_at FROM sync_state WHERE symbol = ? AND period = ?",
		symbol, period,
	).Scan(&syncedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sync state: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, syncedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sync time %q: %w", syncedAt, err)
	}

	return &ts, nil
}
