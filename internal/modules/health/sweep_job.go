package health

import (
	"github.com/rs/zerolog"
)

// SweepJob runs the health check across the watchlist on a schedule and
// logs each ticker's level: warn at caution, error at exit.
type SweepJob struct {
	checker   *Checker
	watchlist []string
	log       zerolog.Logger
}

// NewSweepJob creates a new health sweep job.
func NewSweepJob(checker *Checker, watchlist []string, log zerolog.Logger) *SweepJob {
	return &SweepJob{
		checker:   checker,
		watchlist: watchlist,
		log:       log.With().Str("component", "health_sweep").Logger(),
	}
}

// Name returns the job name
func (j *SweepJob) Name() string {
	return "health_sweep"
}

// Run checks every watchlist ticker.
func (j *SweepJob) Run() error {
	for _, ticker := range j.watchlist {
		report := j.checker.Check(ticker)

		event := j.log.Info()
		switch report.Level {
		case LevelCaution:
			event = j.log.Warn()
		case LevelExit:
			event = j.log.Error()
		}
		event.
			Str("ticker", report.Ticker).
			Str("level", string(report.Level)).
			Strs("signals", report.Signals).
			Msg("Health check")
	}

	j.log.Info().Int("tickers", len(j.watchlist)).Msg("Health sweep completed")
	return nil
}
