package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// setupHealthRoutes configures position health-check routes
func (s *Server) setupHealthRoutes(r chi.Router) {
	r.Get("/health/{ticker}", s.handleHealthCheck)
}

// handleHealthCheck classifies one ticker on the ok/watch/caution/exit
// ladder
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(chi.URLParam(r, "ticker"))
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	s.writeJSON(w, http.StatusOK, s.healthChecker.Check(ticker))
}
