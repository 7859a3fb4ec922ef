package cleanup

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskwatch/internal/database"
)

func newTestJob(t *testing.T, watchlist []string) (*HistoryCleanupJob, *database.DB) {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    ":memory:",
		Profile: database.ProfileCache,
		Name:    "history",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewHistoryCleanupJob(db, watchlist, DefaultRetention, zerolog.Nop()), db
}

func seedDaily(t *testing.T, db *database.DB, symbol, date string) {
	t.Helper()
	_, err := db.Conn().Exec(
		"INSERT INTO daily_prices (symbol, date, open, high, low, close, volume) VALUES (?, ?, 100, 101, 99, 100, 1000)",
		symbol, date)
	require.NoError(t, err)
}

func seedMonthly(t *testing.T, db *database.DB, symbol, yearMonth string) {
	t.Helper()
	_, err := db.Conn().Exec(
		"INSERT INTO monthly_prices (symbol, year_month, close) VALUES (?, ?, 100)",
		symbol, yearMonth)
	require.NoError(t, err)
}

func countRows(t *testing.T, db *database.DB, table, symbol string) int {
	t.Helper()
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE symbol = ?", table)
	require.NoError(t, db.Conn().QueryRow(query, symbol).Scan(&n))
	return n
}

func TestHistoryCleanupJob_Name(t *testing.T) {
	job, _ := newTestJob(t, nil)
	assert.Equal(t, "history_cleanup", job.Name())
}

func TestRun_PrunesBarsPastRetention(t *testing.T) {
	job, db := newTestJob(t, []string{"VOO"})

	recent := time.Now().UTC().AddDate(0, 0, -1)
	seedDaily(t, db, "VOO", "2020-01-15")
	seedDaily(t, db, "VOO", recent.Format("2006-01-02"))
	seedMonthly(t, db, "VOO", "2020-01")
	seedMonthly(t, db, "VOO", recent.Format("2006-01"))

	require.NoError(t, job.Run())

	assert.Equal(t, 1, countRows(t, db, "daily_prices", "VOO"))
	assert.Equal(t, 1, countRows(t, db, "monthly_prices", "VOO"))

	var date string
	require.NoError(t, db.Conn().QueryRow("SELECT date FROM daily_prices WHERE symbol = ?", "VOO").Scan(&date))
	assert.Equal(t, recent.Format("2006-01-02"), date)
}

func TestRun_RemovesUnwatchedSymbols(t *testing.T) {
	job, db := newTestJob(t, []string{"VOO"})

	recent := time.Now().UTC().AddDate(0, 0, -1)
	seedDaily(t, db, "VOO", recent.Format("2006-01-02"))
	seedDaily(t, db, "OLD", recent.Format("2006-01-02"))
	seedMonthly(t, db, "OLD", recent.Format("2006-01"))
	_, err := db.Conn().Exec(
		"INSERT INTO sync_state (symbol, period, synced_at) VALUES (?, ?, ?)",
		"OLD", "2y", recent.Format(time.RFC3339))
	require.NoError(t, err)

	require.NoError(t, job.Run())

	assert.Equal(t, 1, countRows(t, db, "daily_prices", "VOO"))
	assert.Zero(t, countRows(t, db, "daily_prices", "OLD"))
	assert.Zero(t, countRows(t, db, "monthly_prices", "OLD"))
	assert.Zero(t, countRows(t, db, "sync_state", "OLD"))
}

func TestRun_EmptyWatchlistSkipsOrphanSweep(t *testing.T) {
	job, db := newTestJob(t, nil)

	recent := time.Now().UTC().AddDate(0, 0, -1)
	seedDaily(t, db, "ZZZ", recent.Format("2006-01-02"))

	require.NoError(t, job.Run())

	assert.Equal(t, 1, countRows(t, db, "daily_prices", "ZZZ"))
}

func TestRun_EmptyCacheIsNoop(t *testing.T) {
	job, _ := newTestJob(t, []string{"VOO"})
	assert.NoError(t, job.Run())
}
