package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// setupReturnsRoutes configures return estimation routes
func (s *Server) setupReturnsRoutes(r chi.Router) {
	r.Get("/returns/{ticker}", s.handleReturnsEstimate)
}

// handleReturnsEstimate produces the three-scenario annualized return
// projection for one ticker
func (s *Server) handleReturnsEstimate(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(chi.URLParam(r, "ticker"))
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	s.writeJSON(w, http.StatusOK, s.returnsEstimator.Estimate(ticker))
}
