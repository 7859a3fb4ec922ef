package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/riskwatch/internal/database"
	"github.com/aristath/riskwatch/internal/scheduler"
)

// SystemHandlers handles system monitoring and job trigger endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	historyDB   *database.DB
	scheduler   *scheduler.Scheduler
	watchlist   []string
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	historyDB *database.DB,
	sched *scheduler.Scheduler,
	watchlist []string,
) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: time.Now(),
		historyDB:   historyDB,
		scheduler:   sched,
		watchlist:   watchlist,
	}
}

// setupSystemRoutes configures system monitoring and job trigger routes
func (s *Server) setupSystemRoutes(r chi.Router) {
	r.Get("/system/status", s.systemHandlers.HandleSystemStatus)
	r.Post("/jobs/{name}/run", s.systemHandlers.HandleJobRun)
}

// DatabaseStats summarizes the history database
type DatabaseStats struct {
	Name       string  `json:"name"`
	SizeMB     float64 `json:"size_mb"`
	WALSizeMB  float64 `json:"wal_size_mb"`
	PageCount  int64   `json:"page_count"`
	StatsError string  `json:"stats_error,omitempty"`
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string        `json:"status"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	CPUPercent    float64       `json:"cpu_percent"`
	MemPercent    float64       `json:"mem_percent"`
	WatchlistSize int           `json:"watchlist_size"`
	Jobs          []string      `json:"jobs"`
	Database      DatabaseStats `json:"database"`
}

// HandleSystemStatus returns uptime, resource usage and database stats
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPct, memPct := h.getSystemStats()

	resp := SystemStatusResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		CPUPercent:    cpuPct,
		MemPercent:    memPct,
		WatchlistSize: len(h.watchlist),
		Jobs:          []string{},
		Database:      DatabaseStats{Name: h.historyDB.Name()},
	}

	if h.scheduler != nil {
		resp.Jobs = h.scheduler.JobNames()
	}

	if stats, err := h.historyDB.GetStats(); err != nil {
		h.log.Warn().Err(err).Msg("Failed to get database stats")
		resp.Database.StatsError = err.Error()
	} else {
		resp.Database.SizeMB = float64(stats.SizeBytes) / 1024 / 1024
		resp.Database.WALSizeMB = float64(stats.WALSizeBytes) / 1024 / 1024
		resp.Database.PageCount = stats.PageCount
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleJobRun triggers a registered job by name
// POST /api/jobs/{name}/run
func (h *SystemHandlers) HandleJobRun(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if h.scheduler == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "scheduler not running",
		})
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job trigger")

	if err := h.scheduler.RunByName(name); err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "unknown job") {
			status = http.StatusNotFound
		}
		h.writeJSON(w, status, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Job " + name + " completed",
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a short interval (100ms) so the status call stays responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
