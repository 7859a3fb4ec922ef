package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/riskwatch/internal/modules/planning"
)

// setupScenarioRoutes configures stress-test scenario routes
func (s *Server) setupScenarioRoutes(r chi.Router) {
	r.Route("/scenario", func(r chi.Router) {
		r.Post("/run", s.handleScenarioRun)
		r.Get("/definitions", s.handleScenarioDefinitions)
	})
}

// scenarioRunRequest is the payload for POST /api/scenario/run
type scenarioRunRequest struct {
	Tickers  []string  `json:"tickers"`
	Scenario string    `json:"scenario"`
	Weights  []float64 `json:"weights,omitempty"`
}

// handleScenarioRun executes a stress-test scenario and attaches the
// generated recommendations
func (s *Server) handleScenarioRun(w http.ResponseWriter, r *http.Request) {
	var req scenarioRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := s.scenarioService.Run(req.Tickers, req.Scenario, s.scenarios, req.Weights)
	if result.Error != "" {
		s.writeError(w, http.StatusBadRequest, result.Error)
		return
	}

	advice := planning.NewAdvice(req.Scenario, result)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"advice": advice,
	})
}

// handleScenarioDefinitions returns the configured scenario table
func (s *Server) handleScenarioDefinitions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.scenarios)
}
