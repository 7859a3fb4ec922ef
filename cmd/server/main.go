package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/riskwatch/internal/clients/yahoo"
	"github.com/aristath/riskwatch/internal/config"
	"github.com/aristath/riskwatch/internal/database"
	"github.com/aristath/riskwatch/internal/domain"
	"github.com/aristath/riskwatch/internal/modules/cleanup"
	"github.com/aristath/riskwatch/internal/modules/health"
	"github.com/aristath/riskwatch/internal/modules/returns"
	"github.com/aristath/riskwatch/internal/modules/risk"
	"github.com/aristath/riskwatch/internal/modules/scenario"
	"github.com/aristath/riskwatch/internal/modules/universe"
	"github.com/aristath/riskwatch/internal/scheduler"
	"github.com/aristath/riskwatch/internal/server"
	"github.com/aristath/riskwatch/pkg/logger"
)

func main() {
	// Bootstrap logger; replaced once the configured level is known
	log := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	log.Info().Msg("Starting riskwatch")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// history.db - price history cache, reconstructible from upstream
	historyDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "history.db"),
		Profile: database.ProfileCache,
		Name:    "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history database")
	}
	defer historyDB.Close()

	if err := historyDB.Migrate(); err != nil {
		log.Fatal().Err(err).Str("database", historyDB.Name()).Msg("Failed to apply schema")
	}

	// Market data client, wrapped in the SQLite read-through cache
	upstream := newMarketClient(cfg, log)
	store := universe.NewStore(historyDB.Conn(), log)
	market := universe.NewCachedClient(upstream, store,
		time.Duration(cfg.HistoryTTLHours)*time.Hour, log)

	// Analytics engines
	riskSvc := risk.NewService(market, log)
	scenarioSvc := scenario.NewService(market, riskSvc, log)
	healthChecker := health.NewChecker(market, log)
	returnsEstimator := returns.NewEstimator(market, log)

	// Scenario table: built-in definitions unless a custom file is given
	scenarios := scenario.Defaults()
	if cfg.ScenariosFile != "" {
		scenarios, err = scenario.LoadDefinitions(cfg.ScenariosFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ScenariosFile).Msg("Failed to load scenario definitions")
		}
		log.Info().Int("count", len(scenarios)).Str("path", cfg.ScenariosFile).Msg("Scenario definitions loaded")
	}

	// Background jobs
	sched := scheduler.New(log)
	sched.Start()

	if err := registerJobs(sched, upstream, store, healthChecker, historyDB, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Log:              log,
		Host:             cfg.Host,
		Port:             cfg.Port,
		HistoryDB:        historyDB,
		RiskService:      riskSvc,
		ScenarioService:  scenarioSvc,
		Scenarios:        scenarios,
		HealthChecker:    healthChecker,
		ReturnsEstimator: returnsEstimator,
		Scheduler:        sched,
		Watchlist:        cfg.Watchlist,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	sched.Stop()

	log.Info().Msg("Server stopped")
}

// newMarketClient selects the upstream market data implementation.
// "http" talks to the Yahoo query API directly; "native" goes through
// the go-yfinance library.
func newMarketClient(cfg *config.Config, log zerolog.Logger) domain.MarketData {
	if cfg.MarketClient == "native" {
		log.Info().Msg("Using native Yahoo Finance client")
		return yahoo.NewNativeClient(log)
	}

	client := yahoo.NewClient(log)
	client.SetTimeout(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)
	return client
}

// cleanupSchedule runs the cache retention sweep Sunday 04:00, well away
// from the weekday sync and sweep slots.
const cleanupSchedule = "0 0 4 * * 0"

// registerJobs wires the background jobs onto the scheduler
func registerJobs(
	sched *scheduler.Scheduler,
	upstream domain.MarketData,
	store *universe.Store,
	checker *health.Checker,
	historyDB *database.DB,
	cfg *config.Config,
	log zerolog.Logger,
) error {
	syncJob := universe.NewPriceSyncJob(upstream, store, cfg.Watchlist, log)
	if err := sched.AddJob(cfg.PriceSyncSchedule, syncJob); err != nil {
		return fmt.Errorf("failed to register price sync job: %w", err)
	}

	sweepJob := health.NewSweepJob(checker, cfg.Watchlist, log)
	if err := sched.AddJob(cfg.HealthSweepSchedule, sweepJob); err != nil {
		return fmt.Errorf("failed to register health sweep job: %w", err)
	}

	cleanupJob := cleanup.NewHistoryCleanupJob(historyDB, cfg.Watchlist, cleanup.DefaultRetention, log)
	if err := sched.AddJob(cleanupSchedule, cleanupJob); err != nil {
		return fmt.Errorf("failed to register history cleanup job: %w", err)
	}

	return nil
}
