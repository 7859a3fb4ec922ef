package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Host                string
	Port                int
	LogLevel            string
	LogPretty           bool
	DataDir             string // Base directory for the history database (defaults to "../data" or "./data")
	Watchlist           []string
	ScenariosFile       string // Optional JSON scenario table; empty = built-in defaults
	MarketClient        string // "http" or "native"
	HistoryTTLHours     int
	PriceSyncSchedule   string // cron spec with seconds field
	HealthSweepSchedule string // cron spec with seconds field
	HTTPTimeoutSeconds  int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic
	dataDir := getEnv("DATA_DIR", "")
	if dataDir == "" {
		// Check ../data first (when running from a subdirectory), then ./data
		if _, err := os.Stat("../data"); err == nil {
			dataDir = "../data"
		} else if _, err := os.Stat("./data"); err == nil {
			dataDir = "./data"
		} else {
			// Default fallback
			dataDir = "./data"
		}
	}

	cfg := &Config{
		Host:                getEnv("HOST", "0.0.0.0"),
		Port:                getEnvAsInt("PORT", 8090),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogPretty:           getEnvAsBool("LOG_PRETTY", false),
		DataDir:             dataDir,
		Watchlist:           parseWatchlist(getEnv("WATCHLIST", "")),
		ScenariosFile:       getEnv("SCENARIOS_FILE", ""),
		MarketClient:        getEnv("MARKET_CLIENT", "http"),
		HistoryTTLHours:     getEnvAsInt("HISTORY_TTL_HOURS", 24),
		PriceSyncSchedule:   getEnv("PRICE_SYNC_SCHEDULE", "0 0 18 * * 1-5"),
		HealthSweepSchedule: getEnv("HEALTH_SWEEP_SCHEDULE", "0 30 18 * * 1-5"),
		HTTPTimeoutSeconds:  getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.MarketClient != "http" && c.MarketClient != "native" {
		return fmt.Errorf("invalid MARKET_CLIENT: %q (must be \"http\" or \"native\")", c.MarketClient)
	}
	if c.HistoryTTLHours < 1 {
		return fmt.Errorf("invalid HISTORY_TTL_HOURS: %d", c.HistoryTTLHours)
	}
	if c.HTTPTimeoutSeconds < 1 {
		return fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS: %d", c.HTTPTimeoutSeconds)
	}
	return nil
}

// parseWatchlist splits a comma-separated ticker list, trimming and
// uppercasing each entry and dropping empties.
func parseWatchlist(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToUpper(strings.TrimSpace(p))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		return nil
	}
	return tickers
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
